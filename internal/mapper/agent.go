package mapper

import (
	"encoding/json"
	"fmt"

	"kbbridge/internal/model"
	"kbbridge/internal/remote"
)

// ApplyAgent copies agent payload fields onto a local agent. The dsl
// sub-object is stored as its JSON text.
func ApplyAgent(p remote.Payload, a *model.Agent) Outcome {
	var o Outcome
	setRemoteID(p, &o, &a.RemoteID)
	setString(p, &o, &a.Name, "Name", "name", "title")
	setString(p, &o, &a.Description, "Description", "description")
	setString(p, &o, &a.Status, "Status", "status")

	if v, ok := p["dsl"]; ok {
		switch dsl := v.(type) {
		case string:
			a.DSL = dsl
			o.applied("DSL")
		case map[string]any:
			raw, err := json.Marshal(dsl)
			if err != nil {
				o.skip("dsl", "marshal failed: "+err.Error())
				break
			}
			a.DSL = string(raw)
			o.applied("DSL")
		default:
			o.skip("dsl", fmt.Sprintf("expected string or object, got %T", v))
		}
	}
	return o
}
