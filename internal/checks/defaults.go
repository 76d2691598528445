package checks

import (
	"net/http"

	"github.com/hamed0406/smokecheck/internal/domain"
)

// Defaults returns the built-in checks for a deploy target. Unknown targets
// get no checks.
func Defaults(target, runID, emailTo string) []domain.CheckSpec {
	switch target {
	case "api":
		email, err := domain.JSONBody(map[string]any{
			"to":       emailTo,
			"subject":  "Deploy smoke check #" + runID,
			"template": "Deploy smoke check for Salon Black & White",
			"data": map[string]any{
				"trigger": "github-actions",
				"run_id":  runID,
			},
		})
		if err != nil {
			// strings only; cannot fail
			panic(err)
		}
		return []domain.CheckSpec{
			get("/healthz"),
			get("/health"),
			{
				Name:           "POST /emails/send",
				Method:         http.MethodPost,
				Path:           "/emails/send",
				Headers:        map[string]string{},
				Body:           email,
				ExpectedStatus: []int{http.StatusOK, http.StatusCreated},
			},
		}
	case "public":
		return []domain.CheckSpec{get("/"), get("/robots.txt")}
	case "dashboard", "admin":
		return []domain.CheckSpec{get("/")}
	}
	return nil
}

func get(path string) domain.CheckSpec {
	return domain.CheckSpec{
		Name:    http.MethodGet + " " + path,
		Method:  http.MethodGet,
		Path:    path,
		Headers: map[string]string{},
	}
}
