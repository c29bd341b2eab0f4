package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Account is one tenant of the routing gateway.
type Account struct {
	ID      uint          `gorm:"primaryKey" json:"id"`
	Name    string        `gorm:"unique;not null" json:"name"`
	Numbers []OwnedNumber `gorm:"foreignKey:AccountID" json:"numbers"`
}

// OwnedNumber is a sending number an account already owns. CountryCode is
// resolved once at insert so routing calls don't re-parse inventory.
type OwnedNumber struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	AccountID    uint    `gorm:"index;not null" json:"account_id"`
	Number       string  `gorm:"unique;not null" json:"number"` // E.164
	CountryCode  string  `json:"country_code"`
	MonthlyCost  float64 `json:"monthly_cost"`
	SMSEnabled   bool    `json:"sms_enabled"`
	VoiceEnabled bool    `json:"voice_enabled"`
	MMSEnabled   bool    `json:"mms_enabled"`
}

// loadAccounts loads all accounts and their numbers into the in-memory maps.
func (gateway *Gateway) loadAccounts() error {
	var accounts []Account
	if err := gateway.DB.Preload("Numbers").Find(&accounts).Error; err != nil {
		return err
	}

	accountMap := make(map[uint]*Account)
	numberMap := make(map[string]*OwnedNumber)
	for i := range accounts {
		account := &accounts[i]
		accountMap[account.ID] = account
		for j := range account.Numbers {
			numberMap[account.Numbers[j].Number] = &account.Numbers[j]
		}
	}

	gateway.mu.Lock()
	gateway.Accounts = accountMap
	gateway.Numbers = numberMap
	gateway.mu.Unlock()
	return nil
}

// ownedNumbers returns the E.164 numbers for one account, or nil if the
// account is unknown.
func (gateway *Gateway) ownedNumbers(accountID uint) []string {
	gateway.mu.RLock()
	defer gateway.mu.RUnlock()

	account, ok := gateway.Accounts[accountID]
	if !ok {
		return nil
	}
	numbers := make([]string, 0, len(account.Numbers))
	for _, n := range account.Numbers {
		numbers = append(numbers, n.Number)
	}
	return numbers
}

// findAccountByNumber returns the account owning a number, if any.
func (gateway *Gateway) findAccountByNumber(number string) *Account {
	gateway.mu.RLock()
	defer gateway.mu.RUnlock()

	owned, ok := gateway.Numbers[number]
	if !ok {
		return nil
	}
	return gateway.Accounts[owned.AccountID]
}

// addNumber normalizes, resolves, and stores a new owned number for an
// account, then refreshes the in-memory maps.
func (gateway *Gateway) addNumber(accountID uint, number *OwnedNumber) error {
	gateway.mu.RLock()
	_, accountExists := gateway.Accounts[accountID]
	_, numberExists := gateway.Numbers[number.Number]
	gateway.mu.RUnlock()

	if !accountExists {
		return fmt.Errorf("account %d does not exist", accountID)
	}
	if numberExists {
		return fmt.Errorf("number %s already exists", number.Number)
	}

	formatted, err := FormatToE164(number.Number)
	if err != nil {
		return err
	}
	number.Number = formatted

	country, err := gateway.Engine.Directory().ResolveCountry(number.Number)
	if err != nil {
		return fmt.Errorf("cannot resolve country for %s: %w", number.Number, err)
	}
	number.CountryCode = country
	number.AccountID = accountID

	if err := gateway.DB.Create(number).Error; err != nil {
		return fmt.Errorf("failed to store number: %w", err)
	}

	gateway.mu.Lock()
	gateway.Numbers[number.Number] = number
	if account, ok := gateway.Accounts[accountID]; ok {
		account.Numbers = append(account.Numbers, *number)
	}
	gateway.mu.Unlock()

	logf := LoggingFormat{
		Type:    LogType.DB,
		Level:   logrus.InfoLevel,
		Message: fmt.Sprintf("added number %s to account %d", number.Number, accountID),
	}
	logf.AddField("country", country)
	logf.Print()
	return nil
}
