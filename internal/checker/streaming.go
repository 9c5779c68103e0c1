package checker

// Stage names emitted while an analysis progresses
const (
	StageStart         = "start"
	StageFetched       = "fetched"
	StageSecurity      = "security"
	StageGDPR          = "gdpr"
	StageAccessibility = "accessibility"
	StageComplete      = "complete"
	StageError         = "error"
)

// Stage is one progress event of an analysis
type Stage struct {
	Stage   string      `json:"stage"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// FetchInfo is the data of the fetched stage
type FetchInfo struct {
	URL        string       `json:"url"`
	FinalURL   string       `json:"finalUrl"`
	StatusCode int          `json:"statusCode"`
	Redirects  int          `json:"redirects"`
	Bytes      int          `json:"bytes"`
	Truncated  bool         `json:"truncated"`
	Timings    FetchTimings `json:"timings"`
}

// emitter serializes stage callbacks; a nil emitter drops events
type emitter func(Stage)

func (e emitter) emit(stage, message string, data interface{}) {
	if e == nil {
		return
	}
	e(Stage{Stage: stage, Message: message, Data: data})
}
