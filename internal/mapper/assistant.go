package mapper

import (
	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

// ApplyAssistant copies chat-assistant payload fields onto a local
// assistant. The llm and prompt sub-objects are flattened; dataset linkage
// is resolved by the sync coordinator, not here.
func ApplyAssistant(p remote.Payload, a *model.ChatAssistant) Outcome {
	var o Outcome
	setRemoteID(p, &o, &a.RemoteID)
	setString(p, &o, &a.Name, "Name", "name")
	setString(p, &o, &a.Status, "Status", "status")

	if llm, ok := nested(p, &o, "llm"); ok {
		setString(llm, &o, &a.Model, "Model", "model_name", "model")
		setFloat(llm, &o, &a.Temperature, "Temperature", "temperature")
		setFloat(llm, &o, &a.TopP, "TopP", "top_p")
		setFloat(llm, &o, &a.PresencePenalty, "PresencePenalty", "presence_penalty")
		setFloat(llm, &o, &a.FrequencyPenalty, "FrequencyPenalty", "frequency_penalty")
	}
	if prompt, ok := nested(p, &o, "prompt"); ok {
		setString(prompt, &o, &a.Prompt, "Prompt", "prompt", "system")
	}
	return o
}

// AssistantDatasetIDs extracts the remote dataset ids an assistant is bound
// to, tolerating absence and malformed entries.
func AssistantDatasetIDs(p remote.Payload) []string {
	v, ok := p["dataset_ids"]
	if !ok {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var ids []string
	for _, item := range list {
		if s, ok := item.(string); ok && s != "" {
			ids = append(ids, s)
		}
	}
	return ids
}
