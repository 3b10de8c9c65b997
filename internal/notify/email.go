package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/noah-isme/backend-carwash/internal/db/gen"
	"github.com/noah-isme/backend-carwash/internal/events"
	"github.com/noah-isme/backend-carwash/internal/repo"
)

// CustomerLookup resolves the recipient of customer facing emails.
type CustomerLookup interface {
	GetCustomerByID(ctx context.Context, id pgtype.UUID) (dbgen.Customer, error)
}

// EmailNotifier sends transactional emails for selected topics.
type EmailNotifier struct {
	Mail         Mailer
	Customers    CustomerLookup
	ShopName     string
	TopicToggles map[string]bool
}

var bodies = template.Must(template.New("emails").Parse(`
{{define "wash_service.completed"}}<p>Hi {{.FirstName}},</p><p>Your {{.Service}} at {{.Shop}} is done. Your car is ready for pickup.</p>{{end}}
{{define "loyalty.free_wash_granted"}}<p>Hi {{.FirstName}},</p><p>Thanks for being a regular at {{.Shop}}! This wash was on us. Free washes earned so far: {{.FreeWashes}}.</p>{{end}}
`))

var subjects = map[string]string{
	events.TopicWashServiceCompleted:   "Your car is ready",
	events.TopicLoyaltyFreeWashGranted: "You earned a free wash",
}

// Notify implements the events.Notifier interface.
func (n EmailNotifier) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	if n.Mail == nil || n.Customers == nil {
		return nil
	}
	subject, ok := subjects[event.Topic]
	if !ok {
		return nil
	}
	if n.TopicToggles != nil {
		if enabled, ok := n.TopicToggles[event.Topic]; ok && !enabled {
			return nil
		}
	}
	// WashPayload shares the customer and service keys, so one shape reads both.
	var payload events.FreeWashPayload
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &payload); err != nil {
			return fmt.Errorf("email notify: decode payload: %w", err)
		}
	}
	id, err := repo.ToUUID(payload.CustomerID)
	if err != nil {
		return nil
	}
	customer, err := n.Customers.GetCustomerByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("email notify: load customer: %w", err)
	}
	if strings.TrimSpace(customer.Email) == "" {
		return nil
	}
	var body bytes.Buffer
	err = bodies.ExecuteTemplate(&body, event.Topic, map[string]any{
		"FirstName":  customer.FirstName,
		"Service":    serviceLabel(payload.ServiceType),
		"Shop":       n.shopName(),
		"FreeWashes": payload.FreeServicesUsed,
	})
	if err != nil {
		return fmt.Errorf("email notify: render %s: %w", event.Topic, err)
	}
	return n.Mail.Send(customer.Email, subject, body.String())
}

func (n EmailNotifier) shopName() string {
	if n.ShopName == "" {
		return "our car wash"
	}
	return n.ShopName
}

func serviceLabel(st string) string {
	if st == "" {
		return "wash"
	}
	return strings.ReplaceAll(st, "_", " ")
}
