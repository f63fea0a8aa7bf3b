package mid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ardanlabs/blockcoin/business/web/mid"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_Cors(t *testing.T) {
	type table struct {
		name    string
		origins []string
		origin  string
		allow   string
	}

	tt := []table{
		{name: "any", origins: []string{"*"}, origin: "http://a.example", allow: "*"},
		{name: "default", origins: nil, origin: "http://a.example", allow: "*"},
		{name: "listed", origins: []string{"http://a.example", "http://b.example"}, origin: "http://b.example", allow: "http://b.example"},
		{name: "unlisted", origins: []string{"http://a.example"}, origin: "http://c.example", allow: ""},
	}

	t.Log("Given the need to answer browser requests from allowed origins.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen %q calls with origins %v.", testID, tst.origin, tst.origins)
			{
				f := func(t *testing.T) {
					var called bool
					next := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
						called = true
						return nil
					}

					h := mid.Cors(mid.CorsConfig{Origins: tst.origins})(next)

					r := httptest.NewRequest(http.MethodGet, "/v1/wallets", nil)
					r.Header.Set("Origin", tst.origin)
					w := httptest.NewRecorder()

					if err := h(context.Background(), w, r); err != nil || !called {
						t.Fatalf("\t%s\tTest %d:\tShould call the next handler: %v", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould call the next handler.", success, testID)

					if got := w.Header().Get("Access-Control-Allow-Origin"); got != tst.allow {
						t.Fatalf("\t%s\tTest %d:\tShould allow %q: got %q", failed, testID, tst.allow, got)
					}
					t.Logf("\t%s\tTest %d:\tShould allow %q.", success, testID, tst.allow)
				}

				t.Run(tst.name, f)
			}
		}
	}
}
