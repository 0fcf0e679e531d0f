package broker

import (
	"fmt"
	"time"
)

const (
	ActionProviderCreated = "provider.created"
	ActionProviderUpdated = "provider.updated"
	ActionProviderDeleted = "provider.deleted"
	ActionCategoryCreated = "category.created"
	ActionMediaAdded      = "media.added"
	ActionImportFinished  = "import.finished"
)

// Event é o que chega no relay websocket (cmd/ws) e, de lá, nas notificações do app.
type Event struct {
	Action    string         `json:"action"`
	EntityID  string         `json:"entityId,omitempty"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

func NewEvent(action, entityID, message string, data map[string]any) Event {
	return Event{
		Action:    action,
		EntityID:  entityID,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// ProviderMessage monta o texto exibido na notificação.
func ProviderMessage(action, name string) string {
	switch action {
	case ActionProviderCreated:
		return fmt.Sprintf("Novo prestador: %s", name)
	case ActionProviderUpdated:
		return fmt.Sprintf("Prestador atualizado: %s", name)
	case ActionProviderDeleted:
		return fmt.Sprintf("Prestador removido: %s", name)
	default:
		return name
	}
}
