package wiki

// Caller identifies who is making a request. The only capability the domain
// cares about is edit: editors see private projects and may write.
type Caller struct {
	Editor  bool
	Subject string
}

// Anonymous is the zero caller: no edit capability.
var Anonymous = Caller{}
