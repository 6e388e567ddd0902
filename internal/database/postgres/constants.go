package postgres

// SettingsRowID is the single row holding the settings document
const SettingsRowID = 1

// Error Messages - Transaction Operations
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	ErrMsgFailedToRollback          = "Failed to rollback transaction"
)

// Error Messages - Group Operations
const (
	ErrMsgFailedToQueryGroup    = "failed to query group"
	ErrMsgFailedToQueryUsers    = "failed to query group users"
	ErrMsgFailedToQueryHistory  = "failed to query user history"
	ErrMsgFailedToUpsertGroup   = "failed to upsert group"
	ErrMsgFailedToClearGroup    = "failed to clear group rows"
	ErrMsgFailedToCopyUsers     = "failed to copy users"
	ErrMsgFailedToCopyHistory   = "failed to copy history"
	ErrMsgFailedToDeleteGroup   = "failed to delete group"
	ErrMsgFailedToListGroups    = "failed to list groups"
	ErrMsgFailedToLoadSettings  = "failed to load settings"
	ErrMsgFailedToSaveSettings  = "failed to save settings"
	ErrMsgHistoryForUnknownUser = "history row references unknown user"
)
