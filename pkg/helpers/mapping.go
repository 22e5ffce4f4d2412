package helpers

import (
	"errors"
	"fmt"

	"github.com/Gitsandu/taskmanagementBackend/pkg/mailer"
	mailtpl "github.com/Gitsandu/taskmanagementBackend/pkg/mailer/templates"
)

var ErrEmptyJob = errors.New("email job has neither template nor subject")

// EnsureRecipientAndEmail fills template data with the recipient when the producer left it out.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// RenderJob resolves the final subject and bodies for a job, rendering its template if it has one.
func RenderJob(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.To == "" {
		return "", "", "", errors.New("email job has no recipient")
	}
	if job.Template != "" {
		if !mailtpl.Known(job.Template) {
			return "", "", "", fmt.Errorf("unknown template %q", job.Template)
		}
		EnsureRecipientAndEmail(job)
		return mailtpl.Render(job.Template, job.Data)
	}
	if job.Subject == "" || (job.Text == "" && job.HTML == "") {
		return "", "", "", ErrEmptyJob
	}
	return job.Subject, job.Text, job.HTML, nil
}
