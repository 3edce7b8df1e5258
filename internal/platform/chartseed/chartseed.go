// Package chartseed loads chart-of-accounts definitions from YAML.
package chartseed

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/SscSPs/erp_ledger/internal/apperrors"
	"github.com/SscSPs/erp_ledger/internal/core/domain"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_chart.yaml
var defaultChart []byte

type chartFile struct {
	MainGroups []mainGroupFile `yaml:"mainGroups" validate:"required,min=1,dive"`
}

type mainGroupFile struct {
	Code         string         `yaml:"code" validate:"required,number"`
	Name         string         `yaml:"name" validate:"required"`
	Category     string         `yaml:"category" validate:"required,oneof=ASSET LIABILITY CAPITAL DRAWINGS REVENUE EXPENSE COST"`
	DisplayOrder int            `yaml:"displayOrder"`
	Subgroups    []subgroupFile `yaml:"subgroups" validate:"dive"`
}

type subgroupFile struct {
	Code     string        `yaml:"code" validate:"required,number"`
	Name     string        `yaml:"name" validate:"required"`
	Accounts []accountFile `yaml:"accounts" validate:"dive"`
}

type accountFile struct {
	Code           string `yaml:"code" validate:"required,number"`
	Name           string `yaml:"name" validate:"required"`
	Description    string `yaml:"description"`
	Kind           string `yaml:"kind" validate:"omitempty,oneof=regular person"`
	Role           string `yaml:"role" validate:"omitempty,oneof=INVENTORY PAYABLE_CONTROL RECEIVABLE_CONTROL CASH_OR_BANK REVENUE COGS"`
	OpeningBalance string `yaml:"openingBalance" validate:"omitempty,numeric"`
}

var validate = validator.New()

// Default returns the chart embedded in the binary.
func Default() (domain.ChartDefinition, error) {
	return Parse(defaultChart)
}

// Load reads a chart definition from a YAML file.
func Load(path string) (domain.ChartDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ChartDefinition{}, fmt.Errorf("reading chart %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML chart definition.
func Parse(data []byte) (domain.ChartDefinition, error) {
	var file chartFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return domain.ChartDefinition{}, fmt.Errorf("%w: decoding chart: %v", apperrors.ErrValidation, err)
	}
	if err := validate.Struct(file); err != nil {
		return domain.ChartDefinition{}, fmt.Errorf("%w: invalid chart: %v", apperrors.ErrValidation, err)
	}

	def := domain.ChartDefinition{MainGroups: make([]domain.MainGroupDefinition, len(file.MainGroups))}
	for i, g := range file.MainGroups {
		mg := domain.MainGroupDefinition{
			Code:         g.Code,
			Name:         g.Name,
			Category:     domain.GroupCategory(g.Category),
			DisplayOrder: g.DisplayOrder,
			Subgroups:    make([]domain.SubgroupDefinition, len(g.Subgroups)),
		}
		for j, s := range g.Subgroups {
			if err := domain.ValidateSubgroupCode(g.Code, s.Code); err != nil {
				return domain.ChartDefinition{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
			}
			sg := domain.SubgroupDefinition{
				Code:     s.Code,
				Name:     s.Name,
				Accounts: make([]domain.AccountDefinition, len(s.Accounts)),
			}
			for k, a := range s.Accounts {
				if _, ok := domain.AccountSequence(s.Code, a.Code); !ok {
					return domain.ChartDefinition{}, fmt.Errorf("%w: account %s is not in subgroup %s", apperrors.ErrValidation, a.Code, s.Code)
				}
				opening := decimal.Zero
				if strings.TrimSpace(a.OpeningBalance) != "" {
					opening = decimal.RequireFromString(a.OpeningBalance)
				}
				sg.Accounts[k] = domain.AccountDefinition{
					Code:           a.Code,
					Name:           a.Name,
					Description:    a.Description,
					Kind:           domain.AccountKind(a.Kind),
					Role:           domain.AccountRole(a.Role),
					OpeningBalance: opening,
				}
			}
			mg.Subgroups[j] = sg
		}
		def.MainGroups[i] = mg
	}
	return def, nil
}
