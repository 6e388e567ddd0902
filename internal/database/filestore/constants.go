package filestore

import "os"

// File layout
const (
	GroupFileExt     = ".json"
	SettingsFileName = "settings.json"
	GroupsDirName    = "groups"
	tempPattern      = ".tmp-*"

	dirPerm  os.FileMode = 0o755
	filePerm os.FileMode = 0o644
)

// Error messages
const (
	ErrMsgFailedToCreateDir   = "failed to create data directory"
	ErrMsgFailedToReadFile    = "failed to read data file"
	ErrMsgFailedToDecodeGroup = "failed to decode group file"
	ErrMsgFailedToEncodeGroup = "failed to encode group"
	ErrMsgFailedToWriteFile   = "failed to write data file"
	ErrMsgFailedToRemoveFile  = "failed to remove data file"
	ErrMsgFailedToListDir     = "failed to list data directory"
)
