package models

import (
	"slices"
	"strings"

	"golang.org/x/text/currency"
)

var DefaultCategories = []string{
	"Housing", "Transportation", "Food", "Utilities",
	"Insurance", "Healthcare", "Savings", "Debt",
	"Entertainment", "Personal", "Education", "Gifts",
	"Income", "Investments", "Other",
}

// Settings are per-user preferences held on the client.
type Settings struct {
	Currency          string   `json:"currency"`
	StartDayOfMonth   int      `json:"startDayOfMonth"`
	Theme             Theme    `json:"theme"`
	Categories        []string `json:"categories"`
	ShowNotifications bool     `json:"showNotifications"`
	DefaultView       string   `json:"defaultView"`
}

func DefaultSettings() Settings {
	return Settings{
		Currency:          "USD",
		StartDayOfMonth:   1,
		Theme:             ThemeSystem,
		Categories:        slices.Clone(DefaultCategories),
		ShowNotifications: true,
		DefaultView:       "dashboard",
	}
}

// SettingsPatch carries the fields to change; nil fields are left alone.
type SettingsPatch struct {
	Currency          *string  `json:"currency,omitempty"`
	StartDayOfMonth   *int     `json:"startDayOfMonth,omitempty"`
	Theme             *Theme   `json:"theme,omitempty"`
	Categories        []string `json:"categories,omitempty"`
	ShowNotifications *bool    `json:"showNotifications,omitempty"`
	DefaultView       *string  `json:"defaultView,omitempty"`
}

func (s Settings) Apply(p SettingsPatch) Settings {
	out := s
	out.Categories = slices.Clone(s.Categories)
	if p.Currency != nil {
		out.Currency = strings.ToUpper(strings.TrimSpace(*p.Currency))
	}
	if p.StartDayOfMonth != nil {
		out.StartDayOfMonth = *p.StartDayOfMonth
	}
	if p.Theme != nil {
		out.Theme = *p.Theme
	}
	if p.Categories != nil {
		out.Categories = slices.Clone(p.Categories)
	}
	if p.ShowNotifications != nil {
		out.ShowNotifications = *p.ShowNotifications
	}
	if p.DefaultView != nil {
		out.DefaultView = *p.DefaultView
	}
	return out
}

func (s Settings) Validate() error {
	if _, err := currency.ParseISO(s.Currency); err != nil {
		return invalid("currency", "must be an ISO 4217 code")
	}
	if s.StartDayOfMonth < 1 || s.StartDayOfMonth > 31 {
		return invalid("startDayOfMonth", "must be between 1 and 31")
	}
	if !s.Theme.Valid() {
		return invalid("theme", "must be light, dark or system")
	}
	if len(s.Categories) == 0 {
		return invalid("categories", "must not be empty")
	}
	seen := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		if strings.TrimSpace(c) == "" {
			return invalid("categories", "must not contain blank names")
		}
		if _, dup := seen[c]; dup {
			return invalid("categories", "must not contain duplicates")
		}
		seen[c] = struct{}{}
	}
	return nil
}
