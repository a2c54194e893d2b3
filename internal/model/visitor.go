package model

const (
	VisitorCheckedIn  = "checked_in"
	VisitorCheckedOut = "checked_out"
)

// Visitor is a guest registered at the front desk.
type Visitor struct {
	ID           ID     `json:"id"`
	Name         string `json:"name"`
	Purpose      string `json:"purpose"`
	MeetWith     string `json:"meet_with,omitempty"`
	PersonToMeet string `json:"person_to_meet,omitempty"`
	Origin       string `json:"origin,omitempty"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out,omitempty"`
	Status       string `json:"status,omitempty"`
	KTPImage     string `json:"ktp_image,omitempty"`
	FaceImage    string `json:"face_image,omitempty"`
}

// Host is who the visitor came to see; older records use person_to_meet.
func (v Visitor) Host() string {
	if v.MeetWith != "" {
		return v.MeetWith
	}
	return v.PersonToMeet
}

// State derives checked_in/checked_out when the backend omits the status.
func (v Visitor) State() string {
	if v.Status != "" {
		return v.Status
	}
	if v.CheckOut != "" {
		return VisitorCheckedOut
	}
	return VisitorCheckedIn
}

// VisitorInput is the registration form. Images travel separately as multipart files.
type VisitorInput struct {
	Name     string `form:"name" json:"name"`
	MeetWith string `form:"meet_with" json:"meet_with"`
	Purpose  string `form:"purpose" json:"purpose"`
	Origin   string `form:"origin" json:"origin"`
}
