// Package crm forwards captured leads to the external CRM webhook through
// asynq jobs so that capture never waits on a third party.
package crm

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskLeadForward = "leads.forward"

// MaxForwardRetries bounds redelivery attempts for a single lead.
const MaxForwardRetries = 5

type LeadForwardPayload struct {
	LeadID string `json:"leadId"`
}

func NewLeadForwardTask(payload LeadForwardPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLeadForward, data, asynq.MaxRetry(MaxForwardRetries)), nil
}

func ParseLeadForwardPayload(task *asynq.Task) (LeadForwardPayload, error) {
	var payload LeadForwardPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return LeadForwardPayload{}, err
	}
	return payload, nil
}

func forwardTaskID(leadID uuid.UUID) string {
	return TaskLeadForward + ":" + leadID.String()
}
