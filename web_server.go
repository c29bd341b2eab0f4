package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kataras/iris/v12"
	"github.com/sirupsen/logrus"

	"smartroute-gw/routing"
)

// basicAuthMiddleware enforces Basic Authentication using the API_KEY
// environment variable as the password. The username is ignored.
func basicAuthMiddleware(ctx iris.Context) {
	expectedAPIKey := os.Getenv("API_KEY")
	if expectedAPIKey == "" {
		logf := LoggingFormat{
			Type:    LogType.Web,
			Level:   logrus.ErrorLevel,
			Message: "API_KEY environment variable not set",
		}
		logf.Print()

		ctx.StatusCode(http.StatusInternalServerError)
		ctx.WriteString("Internal Server Error")
		return
	}

	authHeader := ctx.GetHeader("Authorization")
	if authHeader == "" {
		unauthorized(ctx, "Authorization header missing")
		return
	}

	const prefix = "Basic "
	if !strings.HasPrefix(authHeader, prefix) {
		unauthorized(ctx, "Invalid Authorization header format")
		return
	}

	decodedBytes, err := base64.StdEncoding.DecodeString(authHeader[len(prefix):])
	if err != nil {
		unauthorized(ctx, "Failed to decode credentials")
		return
	}
	credentials := string(decodedBytes)

	colonIndex := strings.IndexByte(credentials, ':')
	if colonIndex < 0 {
		unauthorized(ctx, "Invalid credentials format")
		return
	}

	if credentials[colonIndex+1:] != expectedAPIKey {
		unauthorized(ctx, "Invalid API key")
		return
	}

	ctx.Next()
}

// unauthorized responds with a 401 status and a WWW-Authenticate header.
func unauthorized(ctx iris.Context, message string) {
	logf := LoggingFormat{
		Type:    LogType.Web,
		Level:   logrus.WarnLevel,
		Message: message,
	}
	logf.AddField("client_ip", ctx.RemoteAddr())
	logf.Print()

	ctx.Header("WWW-Authenticate", `Basic realm="Restricted"`)
	ctx.StatusCode(http.StatusUnauthorized)
	ctx.WriteString("Unauthorized")
}

// startWebServer registers the routing API surface and blocks serving it.
func startWebServer(gateway *Gateway) error {
	app := iris.New()

	app.Get("/health", webHealthCheck)

	routingParty := app.Party("/routing", basicAuthMiddleware)
	routingParty.Post("/suggest", gateway.webSuggest)
	routingParty.Get("/cost", gateway.webCostComparison)
	routingParty.Get("/distance", gateway.webDistance)
	routingParty.Get("/closest", gateway.webClosest)
	routingParty.Get("/country", gateway.webResolveCountry)
	routingParty.Get("/analytics", gateway.webAnalytics)

	accounts := app.Party("/accounts", basicAuthMiddleware)
	accounts.Post("/reload", gateway.webReloadAccounts)
	accounts.Post("/{id:uint64}/numbers", gateway.webAddNumber)

	usage := app.Party("/usage", basicAuthMiddleware)
	usage.Post("/events", gateway.webPublishUsage)

	webListen := os.Getenv("WEB_LISTEN")
	if webListen == "" {
		webListen = "0.0.0.0:3000"
	}
	return app.Listen(webListen)
}

func webHealthCheck(ctx iris.Context) {
	ctx.StatusCode(http.StatusOK)
	ctx.WriteString("OK")
}

// suggestRequest is the body for POST /routing/suggest. Either account_id or
// owned_numbers supplies the candidate pool.
type suggestRequest struct {
	AccountID    uint     `json:"account_id"`
	OwnedNumbers []string `json:"owned_numbers"`
	Destination  string   `json:"destination"`
	MessageCount int      `json:"message_count"`
	CallMinutes  float64  `json:"call_minutes"`
}

func (gateway *Gateway) webSuggest(ctx iris.Context) {
	logID := uuid.NewString()

	var req suggestRequest
	if err := ctx.ReadJSON(&req); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("invalid request body")
		return
	}
	if req.Destination == "" {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("destination is required")
		return
	}

	owned := req.OwnedNumbers
	if len(owned) == 0 && req.AccountID != 0 {
		owned = gateway.ownedNumbers(req.AccountID)
	}

	rec, err := gateway.Engine.Suggest(req.Destination, owned, req.MessageCount, req.CallMinutes)
	if err != nil {
		gateway.routingError(ctx, logID, err)
		return
	}

	gateway.Metrics.RecommendationsServed.Inc()
	gateway.Metrics.CandidatesEvaluated.Add(float64(1 + len(rec.AlternativeOptions)))

	logf := LoggingFormat{
		Type:    LogType.Routing,
		Level:   logrus.InfoLevel,
		Message: "recommendation served",
	}
	logf.AddField("logID", logID)
	logf.AddField("destination_country", rec.DestinationCountry)
	logf.AddField("primary", rec.PrimaryOption.PhoneNumber)
	logf.Print()

	ctx.JSON(rec)
}

// routingError maps engine failures onto HTTP statuses and bumps the error
// counter.
func (gateway *Gateway) routingError(ctx iris.Context, logID string, err error) {
	kind := "internal"
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, routing.ErrUnresolvableDestination):
		kind = "unresolvable_destination"
		status = http.StatusUnprocessableEntity
	case errors.Is(err, routing.ErrInvalidNumberFormat):
		kind = "invalid_number"
		status = http.StatusBadRequest
	case errors.Is(err, routing.ErrNoRoutingOptions):
		kind = "no_options"
	}
	gateway.Metrics.RoutingErrors.WithLabelValues(kind).Inc()

	logf := LoggingFormat{
		Type:    LogType.Routing,
		Level:   logrus.ErrorLevel,
		Message: "routing request failed",
		Error:   err,
	}
	logf.AddField("logID", logID)
	logf.Print()

	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": err.Error()})
}

func (gateway *Gateway) webCostComparison(ctx iris.Context) {
	origin := ctx.URLParam("origin")
	destination := ctx.URLParam("destination")
	if origin == "" || destination == "" {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("origin and destination are required")
		return
	}
	messages := ctx.URLParamIntDefault("messages", 1)
	minutes, _ := strconv.ParseFloat(ctx.URLParamDefault("minutes", "0"), 64)

	breakdown := gateway.Engine.Costs().Cost(origin, destination, messages, minutes)
	ctx.JSON(breakdown)
}

func (gateway *Gateway) webDistance(ctx iris.Context) {
	from := ctx.URLParam("from")
	to := ctx.URLParam("to")
	if from == "" || to == "" {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("from and to are required")
		return
	}

	dist := gateway.Engine.Directory().Distance(from, to)
	if math.IsInf(dist, 1) {
		// JSON has no Inf; report the pair as unreachable instead.
		ctx.JSON(iris.Map{"from": from, "to": to, "reachable": false})
		return
	}
	ctx.JSON(iris.Map{"from": from, "to": to, "reachable": true, "distance_km": dist})
}

func (gateway *Gateway) webClosest(ctx iris.Context) {
	country := ctx.URLParam("country")
	if country == "" {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("country is required")
		return
	}
	limit := ctx.URLParamIntDefault("limit", 5)

	neighbors := gateway.Engine.Directory().Closest(country, limit)
	if neighbors == nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.WriteString("unknown country")
		return
	}
	ctx.JSON(iris.Map{"country": strings.ToUpper(country), "neighbors": neighbors})
}

func (gateway *Gateway) webResolveCountry(ctx iris.Context) {
	number := ctx.URLParam("number")
	if number == "" {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("number is required")
		return
	}

	country, err := gateway.Engine.Directory().ResolveCountry(number)
	if err != nil {
		gateway.routingError(ctx, uuid.NewString(), err)
		return
	}
	ctx.JSON(iris.Map{"number": number, "country": country})
}

func (gateway *Gateway) webAnalytics(ctx iris.Context) {
	accountID, err := strconv.ParseUint(ctx.URLParam("account_id"), 10, 64)
	if err != nil || accountID == 0 {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("account_id is required")
		return
	}
	days := ctx.URLParamIntDefault("days", 30)

	owned := gateway.ownedNumbers(uint(accountID))
	if owned == nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.WriteString("unknown account")
		return
	}

	since := time.Now().AddDate(0, 0, -days)
	recent, err := gateway.recentDestinations(uint(accountID), since)
	if err != nil {
		logf := LoggingFormat{
			Type:    LogType.Analytics,
			Level:   logrus.ErrorLevel,
			Message: "failed to load usage records",
			Error:   err,
		}
		logf.AddField("accountID", accountID)
		logf.Print()

		ctx.StatusCode(http.StatusInternalServerError)
		ctx.WriteString("failed to load usage records")
		return
	}

	report := gateway.Engine.Analyze(owned, recent)
	gateway.Metrics.AnalyticsReports.Inc()
	ctx.JSON(report)
}

func (gateway *Gateway) webReloadAccounts(ctx iris.Context) {
	if err := gateway.loadAccounts(); err != nil {
		logf := LoggingFormat{
			Type:    LogType.DB,
			Level:   logrus.ErrorLevel,
			Message: "failed to reload accounts",
			Error:   err,
		}
		logf.Print()

		ctx.StatusCode(http.StatusInternalServerError)
		ctx.WriteString("failed to reload accounts")
		return
	}
	ctx.StatusCode(http.StatusOK)
	ctx.WriteString("accounts reloaded")
}

func (gateway *Gateway) webAddNumber(ctx iris.Context) {
	accountID, err := ctx.Params().GetUint64("id")
	if err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("invalid account id")
		return
	}

	var number OwnedNumber
	if err := ctx.ReadJSON(&number); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("invalid request body")
		return
	}

	if err := gateway.addNumber(uint(accountID), &number); err != nil {
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{"error": err.Error()})
		return
	}
	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(number)
}

// webPublishUsage lets trusted internal services hand usage events to the
// queue over HTTP when they have no AMQP client of their own.
func (gateway *Gateway) webPublishUsage(ctx iris.Context) {
	if gateway.AMPQClient == nil {
		ctx.StatusCode(http.StatusServiceUnavailable)
		ctx.WriteString("usage-event ingestion disabled")
		return
	}

	var event UsageEvent
	if err := ctx.ReadJSON(&event); err != nil {
		ctx.StatusCode(http.StatusBadRequest)
		ctx.WriteString("invalid request body")
		return
	}
	if event.LogID == "" {
		event.LogID = uuid.NewString()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.WriteString("failed to encode event")
		return
	}
	if err := gateway.AMPQClient.Publish(usageEventQueue, payload); err != nil {
		logf := LoggingFormat{
			Type:    LogType.Queue,
			Level:   logrus.ErrorLevel,
			Message: "failed to publish usage event",
			Error:   err,
		}
		logf.AddField("logID", event.LogID)
		logf.Print()

		ctx.StatusCode(http.StatusServiceUnavailable)
		ctx.WriteString("queue unavailable")
		return
	}

	ctx.StatusCode(http.StatusAccepted)
	ctx.JSON(iris.Map{"log_id": event.LogID})
}
