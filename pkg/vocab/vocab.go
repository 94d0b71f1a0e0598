package vocab

import "github.com/fieldcal/fieldcal/internal/config"

// Option is one entry of a controlled vocabulary.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Service serves the category and cost-type vocabularies loaded from
// configuration at startup. Both lists are ordered and open ended; the first
// entry acts as the default selection.
type Service struct {
	categories []Option
	costTypes  []Option
}

func NewService(cfg config.Vocab) *Service {
	return &Service{
		categories: toOptions(cfg.Categories),
		costTypes:  toOptions(cfg.CostTypes),
	}
}

func toOptions(values []string) []Option {
	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Label: v, Value: v})
	}
	return options
}

func (s *Service) Categories() []Option {
	return s.categories
}

func (s *Service) CostTypes() []Option {
	return s.costTypes
}

// DefaultCategory returns the first category, or empty when none are
// configured.
func (s *Service) DefaultCategory() string {
	if len(s.categories) == 0 {
		return ""
	}
	return s.categories[0].Value
}

func (s *Service) IsCategory(value string) bool {
	for _, o := range s.categories {
		if o.Value == value {
			return true
		}
	}
	return false
}

func (s *Service) IsCostType(value string) bool {
	for _, o := range s.costTypes {
		if o.Value == value {
			return true
		}
	}
	return false
}
