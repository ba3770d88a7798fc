package gateway

import (
	"net/http"

	"github.com/gonzalo9292/myworkout/pkg"
)

func HandleHealth(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSONResponseOK(w, `{"status":"ok"}`)
}
