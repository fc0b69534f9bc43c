// Package jobboard holds the notifications the job-board app raises, used to
// drive the terminal toaster and the demo scenario.
package jobboard

import (
	"sync"

	"github.com/colonyops/toaster/internal/core/toast"
)

var (
	ResumeUploaded = toast.Payload{
		Title:       "Resume uploaded successfully!",
		Description: "Employers can now see your profile.",
	}
	ResumeRejected = toast.Payload{
		Title:       "Upload failed",
		Description: "Resumes must be **PDF** files under 5MB.",
		Variant:     toast.VariantDestructive,
		Action:      &toast.Action{Label: "Try again", AltText: "Retry the resume upload"},
	}
	JobPosted = toast.Payload{
		Title:       "Job posted",
		Description: "Your listing is live and visible to job seekers.",
	}
	ApplicationSent = toast.Payload{
		Title:       "Application sent",
		Description: "The employer will review your application.",
		Action:      &toast.Action{Label: "View", AltText: "View your applications"},
	}
	PaymentSucceeded = toast.Payload{
		Title:       "Payment Successful!",
		Description: "Your plan has been upgraded to **Pro**.",
	}
	PaymentFailed = toast.Payload{
		Title:       "Payment failed",
		Description: "Your card was declined. No charge was made.",
		Variant:     toast.VariantDestructive,
		Action:      &toast.Action{Label: "Retry", AltText: "Retry the payment"},
	}
)

// Samples returns the default-variant notifications in the order the app
// raises them during a typical session.
func Samples() []toast.Payload {
	return []toast.Payload{ResumeUploaded, ApplicationSent, JobPosted, PaymentSucceeded}
}

// Failures returns the destructive-variant notifications.
func Failures() []toast.Payload {
	return []toast.Payload{ResumeRejected, PaymentFailed}
}

// Cycle hands out payloads from a fixed list in order, wrapping at the end.
type Cycle struct {
	mu       sync.Mutex
	payloads []toast.Payload
	next     int
}

// NewCycle returns a Cycle over payloads. It panics if payloads is empty.
func NewCycle(payloads []toast.Payload) *Cycle {
	if len(payloads) == 0 {
		panic("jobboard: empty cycle")
	}
	return &Cycle{payloads: payloads}
}

// Next returns the next payload.
func (c *Cycle) Next() toast.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.payloads[c.next]
	c.next = (c.next + 1) % len(c.payloads)
	return p
}
