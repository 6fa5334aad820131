package models

// StorageRequest is the input payload of the storage stage.
type StorageRequest struct {
	Topic         string         `json:"topic"`
	MasterContent string         `json:"master_content"`
	Social        *SocialContent `json:"social"`
}

// ScheduleRequest is the input payload of the schedule stage.
type ScheduleRequest struct {
	Topic  string         `json:"topic"`
	Social *SocialContent `json:"social"`
}
