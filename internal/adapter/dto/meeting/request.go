package meeting

// ProcessRequest asks the service to structure a transcript and persist
// the artifacts.
type ProcessRequest struct {
	Transcript    string `json:"transcript" validate:"required"`
	UseGenerative bool   `json:"use_generative"`
	// AudioKey links the meeting to previously uploaded media.
	AudioKey string `json:"audio_key,omitempty"`
}

// ParseRequest asks for a one-off extraction without persistence.
type ParseRequest struct {
	Text          string `json:"text" validate:"required"`
	UseGenerative bool   `json:"use_generative"`
}

// TranscriptionRequest submits media for speech-to-text. Exactly one of
// MediaURL (any fetchable URL) or MediaKey (an object previously uploaded
// to this service) must be set.
type TranscriptionRequest struct {
	MediaURL string `json:"media_url,omitempty" validate:"omitempty,url"`
	MediaKey string `json:"media_key,omitempty"`
}
