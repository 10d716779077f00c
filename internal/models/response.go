package models

import (
	"net/http"
	"time"
)

// ResponseModel Base response structure that can be reused
type ResponseModel struct {
	Code        int         `json:"code"`
	CurrentTime int64       `json:"currentTime"`
	Data        interface{} `json:"data"`
	Text        string      `json:"text"`
	Version     int         `json:"version"`
}

// ResponseCurrentTime is the response timestamp in milliseconds.
func ResponseCurrentTime() int64 {
	return time.Now().UnixNano() / int64(time.Millisecond)
}

func NewResponse(code int, data interface{}, text string) ResponseModel {
	return ResponseModel{
		Code:        code,
		CurrentTime: ResponseCurrentTime(),
		Data:        data,
		Text:        text,
		Version:     2,
	}
}

func NewOKResponse(data interface{}) ResponseModel {
	return NewResponse(http.StatusOK, data, "OK")
}

// NewEntryResponse wraps a single entry and its references.
func NewEntryResponse(entry interface{}, references ReferencesModel) ResponseModel {
	data := map[string]interface{}{
		"entry":      entry,
		"references": references,
	}
	return NewOKResponse(data)
}

// NewListResponse wraps a list of entries and their references.
func NewListResponse(list interface{}, references ReferencesModel) ResponseModel {
	data := map[string]interface{}{
		"limitExceeded": false,
		"list":          list,
		"references":    references,
	}
	return NewOKResponse(data)
}
