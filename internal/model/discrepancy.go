package model

import "github.com/shopspring/decimal"

// Discrepancy is an order whose registry cost and net act amount disagree.
type Discrepancy struct {
	ID            string
	RegistryTotal decimal.Decimal // zero when the order is missing from the registry
	ActTotal      decimal.Decimal // zero when the order is missing from the act
	Diff          decimal.Decimal // RegistryTotal - ActTotal
}

// Status carries the summary values shown after each operation.
type Status struct {
	RegistryFile  string
	RegistryRows  int
	RegistryTotal decimal.Decimal

	ActFile    string
	ActRows    int
	ActIncome  decimal.Decimal
	ActExpense decimal.Decimal
	ActNet     decimal.Decimal

	Compared      bool
	Discrepancies int
}
