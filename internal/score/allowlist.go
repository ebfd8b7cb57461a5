package score

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// LoadAllowList reads the discount allow-list from a JSON file holding a
// flat array of provider-name substrings. A missing file is not an
// error: eligibility degrades to "No" for every provider, with a warning
// so the operator knows the list was not consulted.
func LoadAllowList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Warn("score: discount allow-list not found, eligibility defaults to No",
				zap.String("path", path),
			)
			return nil, nil
		}
		return nil, eris.Wrapf(err, "score: read allow-list %s", path)
	}

	var entries []string
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, eris.Wrapf(err, "score: parse allow-list %s", path)
	}
	return entries, nil
}
