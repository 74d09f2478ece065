package constants

// Коды статусов каталога. Каталог открыт для расширения, но эти коды
// движок воркфлоу знает по имени.
const (
	StatusUnassigned = "UNASSIGNED"
	StatusAssigned   = "ASSIGNED"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Роли
const (
	RoleAdmin   = "ADMIN"
	RoleAnalyst = "ANALYST"
)

// Типы событий доски (board_events.event_type)
const (
	EventAssigned        = "ASSIGNED"
	EventStatusChanged   = "STATUS_CHANGED"
	EventCommentAdded    = "COMMENT_ADDED"
	EventAttachmentAdded = "ATTACHMENT_ADDED"
)
