// # cmd/depmap/cmd/version_test.go
package cmd

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestVersionCommandStructure(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
	assert.NotEmpty(t, versionCmd.Short)
	assert.NotNil(t, versionCmd.Run)
}

func TestRunVersion(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	runVersion(cmd, nil)

	out := buf.String()
	assert.Contains(t, out, "depmap version "+Version)
	assert.Contains(t, out, "Commit: "+Commit)
	assert.Contains(t, out, "Go version:")
	assert.Contains(t, out, "OS/Arch:")
}
