package jobboard

import "github.com/colonyops/toaster/internal/core/toast"

// Scenario labels, in the order Scenario reports them.
const (
	StepUploadResume   = "upload resume"
	StepResumeReady    = "resume processed"
	StepApply          = "apply to job"
	StepPayment        = "upgrade plan"
	StepDismissAll     = "dismiss all"
	StepExpired        = "expired"
	uploadingTitle     = "Uploading resume..."
	uploadingFileLabel = "resume.pdf"
)

// Scenario replays a job seeker's session against s: a resume upload whose
// toast is updated in place once processing finishes, an application, a
// declined payment, and finally dismissing everything. before is called with
// the step label ahead of each step.
func Scenario(s *toast.Store, before func(step string)) {
	before(StepUploadResume)
	upload := s.Notify(toast.Payload{
		Title:       uploadingTitle,
		Description: uploadingFileLabel,
		Extra:       map[string]any{"file": uploadingFileLabel},
	})

	before(StepResumeReady)
	title, desc := ResumeUploaded.Title, ResumeUploaded.Description
	upload.Update(toast.Patch{Title: &title, Description: &desc})

	before(StepApply)
	s.Notify(ApplicationSent)

	before(StepPayment)
	s.Notify(PaymentFailed)

	before(StepDismissAll)
	s.DismissAll()
}
