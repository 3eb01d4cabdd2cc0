package events

import (
	"github.com/fossawork/fossawork/pkg/filter"
)

const (
	WorkOrderScrapedEvent = "workorder.scraped"
	WorkOrderRemovedEvent = "workorder.removed"

	CalculationCompletedEvent = "calculation.completed"
	CalculationWarningEvent   = "calculation.warning"

	NotificationSentEvent = "notification.sent"
)

type WorkOrderScraped struct {
	User      string           `json:"user"`
	WorkOrder filter.WorkOrder `json:"work_order"`
}

type WorkOrderRemoved struct {
	User        string `json:"user"`
	WorkOrderID string `json:"work_order_id"`
}

type CalculationCompleted struct {
	User         string                                `json:"user,omitempty"`
	WorkOrders   int                                   `json:"work_orders"`
	Totals       map[filter.PartNumber]filter.Quantity `json:"totals"`
	WarningCount int                                   `json:"warning_count"`
}

type CalculationWarning struct {
	Warning filter.Warning `json:"warning"`
}

type NotificationSent struct {
	Channel string `json:"channel"`
	Subject string `json:"subject"`
	Error   string `json:"error,omitempty"`
}

func NewWorkOrderScrapedEvent(user string, wo filter.WorkOrder) Event {
	return NewEvent(WorkOrderScrapedEvent, wo.ID, WorkOrderScraped{User: user, WorkOrder: wo})
}

func NewWorkOrderRemovedEvent(user, workOrderID string) Event {
	return NewEvent(WorkOrderRemovedEvent, workOrderID, WorkOrderRemoved{User: user, WorkOrderID: workOrderID})
}

// NewCalculationCompletedEvent records one batch calculation on the
// user's stream ("" for ad-hoc batches posted directly to the API).
func NewCalculationCompletedEvent(user string, workOrders int, summary *filter.FilterSummary) Event {
	stream := user
	if stream == "" {
		stream = "adhoc"
	}
	return NewEvent(CalculationCompletedEvent, stream, CalculationCompleted{
		User:         user,
		WorkOrders:   workOrders,
		Totals:       summary.Totals,
		WarningCount: len(summary.Warnings),
	})
}

func NewCalculationWarningEvent(w filter.Warning) Event {
	stream := w.WorkOrderID
	if stream == "" {
		stream = "batch"
	}
	return NewEvent(CalculationWarningEvent, stream, CalculationWarning{Warning: w})
}

func NewNotificationSentEvent(channel, subject string, sendErr error) Event {
	data := NotificationSent{Channel: channel, Subject: subject}
	if sendErr != nil {
		data.Error = sendErr.Error()
	}
	return NewEvent(NotificationSentEvent, channel, data)
}
