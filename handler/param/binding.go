package param

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/schema"
)

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
	decoder.SetAliasTag("json")
}

// Binding bind query params (GET) or the json body into v
func Binding(r *http.Request, v interface{}) error {
	if r.Method == http.MethodGet {
		if err := r.ParseForm(); err != nil {
			return err
		}

		return decoder.Decode(v, r.Form)
	}

	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
