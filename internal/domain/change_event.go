package domain

// ChangeOperation names a completed grid mutation.
type ChangeOperation string

// ChangeOperation values emitted after each structural or content change.
const (
	ChangeInsertColumn  ChangeOperation = "insert-column"
	ChangeDeleteColumns ChangeOperation = "delete-columns"
	ChangeMoveColumn    ChangeOperation = "move-column"
	ChangeRenameColumn  ChangeOperation = "rename-column"
	ChangeInsertRow     ChangeOperation = "insert-row"
	ChangeDeleteRows    ChangeOperation = "delete-rows"
	ChangeMoveRow       ChangeOperation = "move-row"
	ChangeResetCells    ChangeOperation = "reset-cells"
	ChangeSetCell       ChangeOperation = "set-cell"
	ChangePaste         ChangeOperation = "paste"
)

// ChangeEvent describes one completed mutation for observers.
type ChangeEvent struct {
	Operation ChangeOperation
	// Range is the affected rectangle in coordinates valid after the change.
	Range Selection
	// Keys lists the column keys touched; for renames it is [old, new].
	Keys []string
}
