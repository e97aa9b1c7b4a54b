package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	data := map[string]string{"result": "success"}
	err := formatter.Success(data)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error("E010", "query could not be compiled", nil)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.Equal(t, "E010", resp.Error.Code)
	assert.Equal(t, "query could not be compiled", resp.Error.Message)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"file": "tree.yaml", "step": "2"}
	err := formatter.Error("E002", "bad parse tree", details)
	require.NoError(t, err)

	var resp CLIResponse
	err = json.Unmarshal(buf.Bytes(), &resp)
	require.NoError(t, err)
	assert.Equal(t, "error", resp.Status)
	assert.NotNil(t, resp.Error)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "text",
		Writer: buf,
	}

	err := formatter.Success("Program valid")
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Program valid")
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	err := formatter.Error("E010", "query could not be compiled", nil)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E010]")
	assert.Contains(t, buf.String(), "query could not be compiled")
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	details := map[string]string{"fault": "bad_limit"}
	err := formatter.Error("E010", "query could not be compiled", details)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Error [E010]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:  "text",
				Writer:  buf,
				Verbose: tt.verbose,
			}

			formatter.VerboseLog("Loaded %d edge rule(s)", 3)

			if tt.wantLog {
				assert.Contains(t, buf.String(), "Loaded 3 edge rule(s)")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogUsesErrWriter(t *testing.T) {
	out := &bytes.Buffer{}
	diag := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: true}

	formatter.VerboseLog("Decoded %d op(s)", 4)

	assert.Empty(t, out.String())
	assert.Contains(t, diag.String(), "Decoded 4 op(s)")
}

func TestOutputFormatter_Logger(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"verbose logs debug", true, true},
		{"quiet drops debug", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diag := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: &bytes.Buffer{}, ErrWriter: diag, Verbose: tt.verbose}

			logger := formatter.Logger()
			logger.Debug("query compiled", "ops", 3)
			logger.Error("query could not be compiled", "event", "compile_fault")

			if tt.wantDebug {
				assert.Contains(t, diag.String(), "query compiled")
			} else {
				assert.NotContains(t, diag.String(), "query compiled")
			}
			assert.Contains(t, diag.String(), "event=compile_fault")
		})
	}
}

func TestCLIError_JSONShape(t *testing.T) {
	data, err := json.Marshal(CLIResponse{
		Status: "error",
		Error:  &CLIError{Code: "E010", Message: "query could not be compiled"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"error","error":{"code":"E010","message":"query could not be compiled"}}`, string(data))
}
