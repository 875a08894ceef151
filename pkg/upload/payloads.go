package upload

import "igmobile/pkg/device"

const imageCompression = `{"lib_name":"jt","lib_version":"1.3.0","quality":"87"}`

// mediaTypeVideo is the media_type hint sent when negotiating a video upload
const mediaTypeVideo = "2"

type deviceDescriptor struct {
	Manufacturer   string `json:"manufacturer"`
	Model          string `json:"model"`
	AndroidVersion string `json:"android_version"`
	AndroidRelease string `json:"android_release"`
}

func describeDevice(d *device.Identity) (deviceDescriptor, error) {
	v, err := d.AndroidVersion()
	if err != nil {
		return deviceDescriptor{}, err
	}
	return deviceDescriptor{
		Manufacturer:   d.HardwareManufacturer,
		Model:          d.HardwareModel,
		AndroidVersion: v.Release,
		AndroidRelease: v.APILevel,
	}, nil
}

type photoEdits struct {
	CropOriginalSize []int     `json:"crop_original_size"`
	CropCenter       []float64 `json:"crop_center"`
	CropZoom         int       `json:"crop_zoom"`
}

type photoExtra struct {
	SourceWidth  int `json:"source_width"`
	SourceHeight int `json:"source_height"`
}

type configurePhotoPayload struct {
	UUID        string           `json:"_uuid"`
	UID         string           `json:"_uid"`
	CSRFToken   string           `json:"_csrftoken"`
	MediaFolder string           `json:"media_folder"`
	SourceType  string           `json:"source_type"`
	Caption     string           `json:"caption"`
	UploadID    string           `json:"upload_id"`
	Device      deviceDescriptor `json:"device"`
	Edits       photoEdits       `json:"edits"`
	Extra       photoExtra       `json:"extra"`
}

type videoEdits struct {
	FilterStrength int `json:"filter_strength"`
}

type videoClip struct {
	Length         float64 `json:"length"`
	Cinema         string  `json:"cinema"`
	OriginalLength float64 `json:"original_length"`
	SourceType     string  `json:"source_type"`
	StartTime      int     `json:"start_time"`
	TrimType       int     `json:"trim_type"`
	CameraPosition string  `json:"camera_position"`
}

type configureVideoPayload struct {
	UUID             string           `json:"_uuid"`
	UID              string           `json:"_uid"`
	CSRFToken        string           `json:"_csrftoken"`
	VideoResult      string           `json:"video_result"`
	AudioMuted       bool             `json:"audio_muted"`
	TrimType         int              `json:"trim_type"`
	Duration         float64          `json:"duration"`
	ClientTimestamp  string           `json:"client_timestamp"`
	Caption          string           `json:"caption"`
	SourceType       string           `json:"source_type"`
	MasOptIn         string           `json:"mas_opt_in"`
	Length           float64          `json:"length"`
	DisableComments  bool             `json:"disable_comments"`
	FilterType       int              `json:"filter_type"`
	PosterFrameIndex int              `json:"poster_frame_index"`
	GeotagEnabled    bool             `json:"geotag_enabled"`
	CameraPosition   string           `json:"camera_position"`
	UploadID         string           `json:"upload_id"`
	Device           deviceDescriptor `json:"device"`
	Edits            videoEdits       `json:"edits"`
	Clips            []videoClip      `json:"clips"`
}

// negotiationResponse is the answer of the video upload-intent endpoint
type negotiationResponse struct {
	Status          string        `json:"status"`
	VideoUploadURLs []Destination `json:"video_upload_urls"`
}
