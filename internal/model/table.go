package model

import "github.com/shopspring/decimal"

// RegistryRow is one canonical registry line: an order and its expected cost.
type RegistryRow struct {
	ID   string          // trimmed, lower-cased, never empty
	Cost decimal.Decimal // rounded to 2 places
}

// ActRow is one canonical act line from the counterparty.
type ActRow struct {
	ID      string
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal // Income - Expense
}

// RegistryTable is a fully loaded registry file.
type RegistryTable struct {
	Source       string // file path the table was loaded from
	IDColumn     string
	AmountColumn string
	HeaderRow    int // zero-based row the header was found on
	Rows         []RegistryRow
	Total        decimal.Decimal
}

// ActTable is a fully loaded act file.
type ActTable struct {
	Source       string
	Delimiter    rune
	Rows         []ActRow
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
}

// NewActRow builds an ActRow, deriving Net.
func NewActRow(id string, income, expense decimal.Decimal) ActRow {
	return ActRow{
		ID:      id,
		Income:  income,
		Expense: expense,
		Net:     income.Sub(expense),
	}
}
