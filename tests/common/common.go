package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"os"
	"path"
	"runtime"

	"genelit/api/models"
)

func InitConfig() *models.Config {
	// get this file's path
	_, filename, _, _ := runtime.Caller(0)
	folderpath := path.Dir(filename)

	// retrieve common's test.config
	cfg, err := models.LoadConfig(fmt.Sprintf("%s/test.config.yml", folderpath))
	if err != nil {
		processError(err)
	}
	return cfg
}

// TestdataPath points at a fixture under tests/common/testdata.
func TestdataPath(name string) string {
	_, filename, _, _ := runtime.Caller(0)
	return path.Join(path.Dir(filename), "testdata", name)
}

func GetJsonBody(rec *httptest.ResponseRecorder) map[string]interface{} {
	// - extract body bytes from response
	body, _ := io.ReadAll(rec.Body)
	// - unmarshal or decode the JSON to a declared empty interface.
	var bodyJson map[string]interface{}
	json.Unmarshal(body, &bodyJson)

	return bodyJson
}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}
