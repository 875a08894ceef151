package instagram

// Request payloads. Field order is the serialization order, which is what
// gets signed.

type authFields struct {
	UUID      string `json:"_uuid"`
	UID       string `json:"_uid"`
	CSRFToken string `json:"_csrftoken"`
}

type loginPayload struct {
	PhoneID           string `json:"phone_id"`
	CSRFToken         string `json:"_csrftoken"`
	Username          string `json:"username"`
	GUID              string `json:"guid"`
	DeviceID          string `json:"device_id"`
	Password          string `json:"password"`
	LoginAttemptCount string `json:"login_attempt_count"`
}

type mediaPayload struct {
	authFields
	MediaID string `json:"media_id"`
}

type friendshipPayload struct {
	authFields
	UserID    string `json:"user_id"`
	RadioType string `json:"radio_type"`
}

type commentPayload struct {
	UserBreadcrumb   string `json:"user_breadcrumb"`
	IdempotenceToken string `json:"idempotence_token"`
	authFields
	CommentText     string `json:"comment_text"`
	ContainerModule string `json:"containermodule"`
	RadioType       string `json:"radio_type"`
}

type editMediaPayload struct {
	authFields
	CaptionText string `json:"caption_text"`
}
