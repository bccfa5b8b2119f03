package domain

// AdmissionStatus is the per-room join-workflow decision, persisted on
// every transition. A later request restarts the cycle; approved and
// rejected are terminal only for one request instance.
type AdmissionStatus string

const (
	AdmissionPending   AdmissionStatus = "pending"
	AdmissionRequested AdmissionStatus = "requested"
	AdmissionApproved  AdmissionStatus = "approved"
	AdmissionRejected  AdmissionStatus = "rejected"
)

// AdmissionState says which membership set a connection sits in.
type AdmissionState int

const (
	StateActive AdmissionState = iota
	StateWaiting
)

func (s AdmissionState) String() string {
	if s == StateWaiting {
		return "waiting"
	}
	return "active"
}
