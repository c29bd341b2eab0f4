package routing

import "errors"

var (
	// ErrInvalidNumberFormat is returned when a destination or candidate
	// number cannot be parsed as E.164.
	ErrInvalidNumberFormat = errors.New("invalid phone number format")

	// ErrUnknownCountry is returned when a number parses but maps to a
	// region the directory does not carry.
	ErrUnknownCountry = errors.New("unknown country")

	// ErrUnresolvableDestination is returned by Suggest when the destination
	// number itself cannot be mapped to a country. Fatal to that call.
	ErrUnresolvableDestination = errors.New("unresolvable destination")

	// ErrNoRoutingOptions is returned when the candidate set came up empty.
	// Should not happen once the destination resolved, since a synthetic
	// destination-local candidate is always added.
	ErrNoRoutingOptions = errors.New("no routing options available")
)
