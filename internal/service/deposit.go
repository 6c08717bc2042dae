package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/deposit-service/internal/models"
	"github.com/Dan9191/deposit-service/internal/repository"
	"github.com/Dan9191/deposit-service/internal/selector"
	"github.com/sirupsen/logrus"
)

// Notifier delivers a recommendation to a client address
type Notifier interface {
	SendRecommendation(to, recommendation string) error
}

// DepositService answers deposit queries against a fresh catalog snapshot
type DepositService struct {
	catalog  repository.CatalogSource
	selector *selector.Selector
	notifier Notifier
	log      *logrus.Logger
}

// NewDepositService wires a catalog source and a selector. notifier may be nil
// when recommendations are never mailed.
func NewDepositService(catalog repository.CatalogSource, sel *selector.Selector, notifier Notifier, log *logrus.Logger) *DepositService {
	return &DepositService{
		catalog:  catalog,
		selector: sel,
		notifier: notifier,
		log:      log,
	}
}

// ChooseDeposit returns the recommendation text for prefs
func (s *DepositService) ChooseDeposit(ctx context.Context, prefs models.Preferences) (string, error) {
	start := time.Now()
	fields := preferenceFields(prefs)

	if err := selector.Validate(prefs); err != nil {
		s.log.WithFields(fields).Warnf("Rejected deposit query: %v", err)
		return "", err
	}

	offers, err := s.catalog.Load(ctx)
	if err != nil {
		s.log.WithFields(fields).Errorf("Failed to load deposit catalog: %v", err)
		return "", fmt.Errorf("failed to load catalog: %w", err)
	}

	offer, err := s.selector.Select(prefs, offers)
	if err != nil {
		s.log.WithFields(fields).WithField("catalog_size", len(offers)).Infof("No deposit selected: %v", err)
		return "", err
	}

	s.log.WithFields(fields).WithFields(logrus.Fields{
		"catalog_size": len(offers),
		"offer":        offer.Name,
		"rate":         offer.InterestRate,
		"elapsed":      time.Since(start).String(),
	}).Info("Deposit selected")
	return selector.Format(offer), nil
}

// EmailRecommendation selects a deposit for prefs and mails the result to the client
func (s *DepositService) EmailRecommendation(ctx context.Context, to string, prefs models.Preferences) (string, error) {
	if s.notifier == nil {
		return "", fmt.Errorf("email delivery is not configured")
	}
	text, err := s.ChooseDeposit(ctx, prefs)
	if err != nil {
		return "", err
	}
	if err := s.notifier.SendRecommendation(to, text); err != nil {
		return "", err
	}
	return text, nil
}

func preferenceFields(prefs models.Preferences) logrus.Fields {
	fields := logrus.Fields{}
	if prefs.DepositTerm != nil {
		fields["deposit_term"] = *prefs.DepositTerm
	}
	if prefs.Amount != nil {
		fields["amount"] = *prefs.Amount
	}
	if prefs.Currency != nil {
		fields["currency"] = *prefs.Currency
	}
	if prefs.Replenishment != nil {
		fields["replenishment"] = *prefs.Replenishment
	}
	if prefs.Withdrawal != nil {
		fields["withdrawal"] = *prefs.Withdrawal
	}
	if prefs.Capitalization != nil {
		fields["capitalization"] = *prefs.Capitalization
	}
	return fields
}
