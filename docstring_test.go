package apidoc_test

import (
	"testing"

	v "github.com/Gobd/apidoc"
	"github.com/stretchr/testify/assert"
)

const testFuncDoc = `
Test function
:param a: argument
:return: Nothing
`

func TestSanitizeDoc(t *testing.T) {
	assert.Equal(t, "line1<br/>line2<br/>line3", v.SanitizeDoc("line1\nline2\nline3"))
}

func TestSanitizeDoc_MultiLine(t *testing.T) {
	assert.Equal(t, "line1<br/>line2<br/>line3<br/>line4", v.SanitizeDoc("line1\nline2", "", "line3\nline4"))
}

func TestParseMethodDoc(t *testing.T) {
	assert.Equal(t, "Test function", v.ParseMethodDoc(testFuncDoc, v.Object{}))
}

func TestParseMethodDoc_AppendSummary(t *testing.T) {
	assert.Equal(t, "Summary<br/>Test function", v.ParseMethodDoc(testFuncDoc, v.Object{"summary": "Summary"}))
}

func TestParseSchemaDoc(t *testing.T) {
	assert.Equal(t, "Test schema model.", v.ParseSchemaDoc("Test schema model.", v.Object{}))
}

func TestParseSchemaDoc_ExistingDescription(t *testing.T) {
	assert.Empty(t, v.ParseSchemaDoc("Test schema model.", v.Object{"description": "Test description"}))
}
