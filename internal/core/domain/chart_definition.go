package domain

import "github.com/shopspring/decimal"

// ChartDefinition describes a chart of accounts to be installed.
type ChartDefinition struct {
	MainGroups []MainGroupDefinition
}

// MainGroupDefinition describes a main group and its subgroups.
type MainGroupDefinition struct {
	Code         string
	Name         string
	Category     GroupCategory
	DisplayOrder int
	Subgroups    []SubgroupDefinition
}

// SubgroupDefinition describes a subgroup and its accounts.
type SubgroupDefinition struct {
	Code     string
	Name     string
	Accounts []AccountDefinition
}

// AccountDefinition describes an account. Code must extend the subgroup code.
type AccountDefinition struct {
	Code           string
	Name           string
	Description    string
	Kind           AccountKind
	Role           AccountRole
	OpeningBalance decimal.Decimal
}
