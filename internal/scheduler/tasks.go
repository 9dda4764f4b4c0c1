package scheduler

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const TaskCRMSyncLead = "crm.sync_lead"

const TaskProvisionLabels = "crm.provision_labels"

type CRMSyncLeadPayload struct {
	LeadID string `json:"leadId"`
}

type ProvisionLabelsPayload struct{}

func NewCRMSyncLeadTask(payload CRMSyncLeadPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCRMSyncLead, data), nil
}

func ParseCRMSyncLeadPayload(task *asynq.Task) (CRMSyncLeadPayload, error) {
	var payload CRMSyncLeadPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return CRMSyncLeadPayload{}, err
	}
	return payload, nil
}

func NewProvisionLabelsTask() (*asynq.Task, error) {
	data, err := json.Marshal(ProvisionLabelsPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProvisionLabels, data), nil
}
