package mapper

import (
	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

// ApplyLLMModel copies model-catalog payload fields onto a local entry.
// Catalogs often carry no separate id, so the model name doubles as the
// remote identity when id is absent.
func ApplyLLMModel(p remote.Payload, m *model.LLMModel) Outcome {
	var o Outcome
	setRemoteID(p, &o, &m.RemoteID)
	setString(p, &o, &m.Name, "Name", "name", "llm_name", "model_name")
	setString(p, &o, &m.Kind, "Kind", "kind", "type", "model_type")
	setBool(p, &o, &m.Available, "Available", "available")

	if m.RemoteID == nil && m.Name != "" {
		name := m.Name
		m.RemoteID = &name
		o.applied("RemoteID")
	}
	return o
}
