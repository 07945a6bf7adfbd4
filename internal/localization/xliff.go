// Package localization moves all templates' localized strings to and from
// translators as one XLIFF 1.2 exchange document.
package localization

import "encoding/xml"

const (
	xliffNamespace = "urn:oasis:names:tc:xliff:document:1.2"
	xliffVersion   = "1.2"
	toolID         = "notification-service"

	groupSms     = "sms"
	groupEmail   = "email"
	groupContent = "content"
	unitMessage  = "message"
	unitSubject  = "subject"
)

type xliffDocument struct {
	XMLName xml.Name  `xml:"xliff"`
	Version string    `xml:"version,attr"`
	Xmlns   string    `xml:"xmlns,attr"`
	File    xliffFile `xml:"file"`
}

type xliffFile struct {
	Original       string    `xml:"original,attr"`
	SourceLanguage string    `xml:"source-language,attr"`
	TargetLanguage string    `xml:"target-language,attr"`
	Datatype       string    `xml:"datatype,attr"`
	ToolID         string    `xml:"tool-id,attr"`
	Body           xliffBody `xml:"body"`
}

type xliffBody struct {
	Groups []xliffGroup `xml:"group"`
}

// xliffGroup nests either sub-groups or translation units. Units marshal
// before sub-groups, matching the subject-before-content layout of the
// email group.
type xliffGroup struct {
	Resname string       `xml:"resname,attr"`
	Units   []xliffUnit  `xml:"trans-unit"`
	Groups  []xliffGroup `xml:"group"`
}

type xliffUnit struct {
	ID      string `xml:"id,attr"`
	Resname string `xml:"resname,attr"`
	Source  string `xml:"source"`
	Target  string `xml:"target"`
}
