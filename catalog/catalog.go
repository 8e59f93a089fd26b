package catalog

// Status of an earnings call in the catalog.
type Status string

const (
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
	StatusUpcoming  Status = "upcoming"
)

// Call is one catalog entry. Upcoming calls have no stream URLs yet.
type Call struct {
	ID            string `json:"id"`
	Company       string `json:"company"`
	Quarter       string `json:"quarter"`
	Year          int    `json:"year"`
	Date          string `json:"date"`
	AudioURL      string `json:"audio_url,omitempty"`
	TranscriptURL string `json:"transcript_url,omitempty"`
	Status        Status `json:"status"`
}

var EarningCalls = []Call{
	{
		ID:            "tesla-q1-2025",
		Company:       "Tesla",
		Quarter:       "Q1",
		Year:          2025,
		Date:          "April 22, 2025",
		AudioURL:      "https://files.quartr.com/streams/2025-04-22/ec5ba86e-e8e7-4681-bea1-b1bf6085604b/1/playlists.m3u8",
		TranscriptURL: "https://files.quartr.com/streams/2025-04-22/ec5ba86e-e8e7-4681-bea1-b1bf6085604b/1/live_transcript.jsonl",
		Status:        StatusCompleted,
	},
	{
		ID:            "apple-q2-2025",
		Company:       "Apple",
		Quarter:       "Q2",
		Year:          2025,
		Date:          "2025-05-01",
		AudioURL:      "https://files.quartr.com/streams/2025-05-01/e37c88b7-cb01-4170-87c8-960681d8add1/4/playlists.m3u8",
		TranscriptURL: "https://files.quartr.com/streams/2025-05-01/e37c88b7-cb01-4170-87c8-960681d8add1/4/live_transcript.jsonl",
		Status:        StatusLive,
	},
	{
		ID:            "microsoft-q1-2025",
		Company:       "Microsoft",
		Quarter:       "Q1",
		Year:          2025,
		Date:          "2025-04-30",
		AudioURL:      "https://files.quartr.com/streams/2025-04-30/a2504d42-8793-40ef-bd87-7b6c7e19574f/3/playlists.m3u8",
		TranscriptURL: "https://files.quartr.com/streams/2025-04-30/a2504d42-8793-40ef-bd87-7b6c7e19574f/3/live_transcript.jsonl",
		Status:        StatusCompleted,
	},
	{
		ID:      "nvidia-q2-2025",
		Company: "NVIDIA",
		Quarter: "Q2",
		Year:    2025,
		Date:    "August 27, 2025",
		Status:  StatusUpcoming,
	},
}

func GetCallByID(id string) (Call, bool) {
	for _, call := range EarningCalls {
		if call.ID == id {
			return call, true
		}
	}
	return Call{}, false
}

func byStatus(status Status) []Call {
	out := make([]Call, 0)
	for _, call := range EarningCalls {
		if call.Status == status {
			out = append(out, call)
		}
	}
	return out
}

func LiveCalls() []Call      { return byStatus(StatusLive) }
func CompletedCalls() []Call { return byStatus(StatusCompleted) }
func UpcomingCalls() []Call  { return byStatus(StatusUpcoming) }
