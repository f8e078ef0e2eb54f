package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type NinjaItem struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Icon      string `json:"icon,omitempty"`
	StackSize int    `json:"stackSize,omitempty"`
}

type NinjaLine struct {
	ID             string  `json:"id"`
	Name           string  `json:"name,omitempty"`
	PrimaryValue   float64 `json:"primaryValue"`
	SecondaryValue float64 `json:"secondaryValue,omitempty"`
}

// NinjaResponse is a poe.ninja overview; lines carry prices, items carry names.
type NinjaResponse struct {
	Items            []NinjaItem `json:"items"`
	Lines            []NinjaLine `json:"lines"`
	CurrencyTypeName string      `json:"currencyTypeName,omitempty"`
}

// ScoutID is an item id that poe2scout sends either as a number or a string.
type ScoutID string

func (id *ScoutID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ScoutID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("scout id must be a number or a string: %w", err)
	}
	*id = ScoutID(n.String())
	return nil
}

func (id ScoutID) String() string {
	return string(id)
}

type ScoutItem struct {
	ID           ScoutID `json:"id"`
	Name         string  `json:"name"`
	Text         string  `json:"text,omitempty"`
	Type         string  `json:"type"`
	Icon         string  `json:"icon,omitempty"`
	CurrentPrice float64 `json:"currentPrice"`
	DailyChange  float64 `json:"dailyChange,omitempty"`
	WeeklyChange float64 `json:"weeklyChange,omitempty"`
	Listings     int     `json:"listings,omitempty"`
}

// ScoutResponse is one page of poe2scout unique items, priced in exalted orbs.
type ScoutResponse struct {
	Items   []ScoutItem `json:"items"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"perPage"`
}
