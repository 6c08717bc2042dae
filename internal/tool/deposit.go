package tool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Dan9191/deposit-service/internal/models"
)

// ChooseDepositName is the name agents use to call the deposit selector
const ChooseDepositName = "choose_deposit"

// DepositChooser is the operation behind the choose_deposit tool
type DepositChooser interface {
	ChooseDeposit(ctx context.Context, prefs models.Preferences) (string, error)
}

// NewChooseDepositTool declares the deposit selector as a tool. Its parameters mirror
// models.Preferences; omitted arguments leave the matching constraint unapplied.
func NewChooseDepositTool(chooser DepositChooser) Tool {
	currencies := make([]string, len(models.Currencies))
	for i, c := range models.Currencies {
		currencies[i] = string(c)
	}

	return Tool{
		Name: ChooseDepositName,
		Description: "Picks the most suitable bank deposit for the client based on their preferences. " +
			"Returns a message with the deposit name and a link to it; relay it to the client unchanged.",
		Parameters: ObjectSchema("Client preferences", map[string]*JSONSchema{
			"deposit_term":   IntProp("Deposit term in days"),
			"amount":         IntProp("Amount of money to deposit"),
			"currency":       EnumProp("Deposit currency", currencies...),
			"replenishment":  BoolProp("Whether the client wants to top up the deposit"),
			"withdrawal":     BoolProp("Whether the client wants partial withdrawals"),
			"capitalization": BoolProp("Whether interest should be capitalized"),
		}),
		Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
			prefs, err := DecodePreferences(args)
			if err != nil {
				return "", err
			}
			return chooser.ChooseDeposit(ctx, prefs)
		},
	}
}

// DecodePreferences parses tool arguments, rejecting unknown fields and wrong types
func DecodePreferences(args json.RawMessage) (models.Preferences, error) {
	var prefs models.Preferences
	if len(bytes.TrimSpace(args)) == 0 {
		return prefs, nil
	}
	dec := json.NewDecoder(bytes.NewReader(args))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("%w: %v", models.ErrInvalidPreferences, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return models.Preferences{}, fmt.Errorf("%w: unexpected data after arguments object", models.ErrInvalidPreferences)
	}
	return prefs, nil
}
