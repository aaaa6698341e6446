package fulfillment

import (
	"fmt"
	"strings"
	"time"

	"github.com/John-Anthony-L/gcp-cookie-delivery-agent/internal/repository"
)

// SubjectConfirmation is the subject line of every confirmation message.
const SubjectConfirmation = "Your Cookie Delivery is Scheduled!"

// DefaultPassage replaces the generated seasonal passage when the generator
// is unreachable. The confirmation must go out either way.
const DefaultPassage = "Wishing you a sweet week and a delightful delivery."

func deliveryMonth(t time.Time) string {
	return t.Month().String()
}

func dedupeKey(orderID string) string {
	return fmt.Sprintf("order:%s:confirmation", orderID)
}

func appointmentLabel(orderID string) string {
	return "Cookie delivery for " + orderID
}

func describeOrder(order *repository.Order) string {
	parts := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		parts = append(parts, fmt.Sprintf("%d x %s", item.Quantity, item.Name))
	}
	return strings.Join(parts, ", ")
}

// composeConfirmation renders the customer-facing confirmation for a booked
// slot. Slot times are formatted in the slot's own location.
func composeConfirmation(order *repository.Order, slot TimeRange, passage string) Message {
	var b strings.Builder

	fmt.Fprintf(&b, "Hi %s,\n\n", order.CustomerName)
	fmt.Fprintf(&b, "Great news! Your cookie order %s is scheduled for delivery.\n\n", order.ID)
	fmt.Fprintf(&b, "Delivery window: %s from %s to %s\n",
		slot.Start.Format("Monday, January 2"),
		slot.Start.Format("3:04 PM"),
		slot.End.Format("3:04 PM"))
	fmt.Fprintf(&b, "Address: %s\n\n", order.DeliveryAddress)

	b.WriteString("Your order:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "  - %d x %s\n", item.Quantity, item.Name)
	}

	fmt.Fprintf(&b, "\n%s\n", passage)
	if notes := strings.TrimSpace(order.SpecialInstructions); notes != "" {
		fmt.Fprintf(&b, "\nDelivery notes: %s\n", notes)
	}
	b.WriteString("\nWarm regards,\nThe Cookie Crew")

	return Message{
		OrderID:   order.ID,
		DedupeKey: dedupeKey(order.ID),
		Recipient: order.CustomerEmail,
		Subject:   SubjectConfirmation,
		Body:      b.String(),
	}
}
