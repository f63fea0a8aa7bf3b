package errs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/ardanlabs/blockcoin/business/web/errs"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

var (
	errMissing = errors.New("missing")
	errBadSize = errors.New("bad size")
)

func Test_Classify(t *testing.T) {
	rules := []errs.Rule{
		{Status: http.StatusNotFound, Errs: []error{errMissing}},
		{Status: http.StatusBadRequest, Errs: []error{errBadSize}},
	}

	type table struct {
		name   string
		err    error
		status int
	}

	tt := []table{
		{name: "notfound", err: fmt.Errorf("lookup: %w", errMissing), status: http.StatusNotFound},
		{name: "badrequest", err: errBadSize, status: http.StatusBadRequest},
		{name: "unknown", err: errors.New("disk full"), status: http.StatusInternalServerError},
		{name: "trusted", err: errs.NewTrusted(errMissing, http.StatusConflict), status: http.StatusConflict},
	}

	t.Log("Given the need to map errors to status codes.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen classifying %q.", testID, tst.err)
			{
				f := func(t *testing.T) {
					err := errs.Classify(tst.err, rules...)

					if got := errs.Status(err); got != tst.status {
						t.Fatalf("\t%s\tTest %d:\tShould report %d: got %d", failed, testID, tst.status, got)
					}
					t.Logf("\t%s\tTest %d:\tShould report %d.", success, testID, tst.status)

					if !errors.Is(err, tst.err) {
						t.Fatalf("\t%s\tTest %d:\tShould keep the original error in the chain.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould keep the original error in the chain.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
