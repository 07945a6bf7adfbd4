package localization

import (
	"bytes"
	"context"
	"encoding/xml"
	"strings"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/locale"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
)

// Import parses an exchange document and applies its target-locale texts
// to the matching stored templates. It returns the parsed target locale
// and the templates updated in memory; persisting them is the caller's
// responsibility. Any structural violation aborts the whole import with
// BadData and nothing is applied downstream.
//
// Template-key groups with no matching stored template are validated but
// silently skipped: the import never creates new templates.
func (s *Service) Import(ctx context.Context, data []byte) (string, []*model.Template, error) {
	p := &parser{
		ctx:       ctx,
		dec:       xml.NewDecoder(bytes.NewReader(data)),
		templates: s.templates,
	}

	if err := p.parseDocument(); err != nil {
		return "", nil, err
	}
	return p.targetLocale, p.updated, nil
}

// parser is a recursive-descent parser over the decoder's token stream.
// Each parse method consumes the content of one grammar production:
// document part, template group, format group, content group, or unit.
type parser struct {
	ctx          context.Context
	dec          *xml.Decoder
	templates    templateLookup
	targetLocale string
	updated      []*model.Template
}

type templateLookup interface {
	GetByKey(ctx context.Context, key string) (*model.Template, error)
}

// document-part: exactly one file element carrying the target locale.
func (p *parser) parseDocument() error {
	root, err := p.nextStart()
	if err != nil {
		return err
	}
	if root.Name.Local != "xliff" {
		return badStructure()
	}

	fileSeen := false
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "file" {
				return badStructure()
			}
			if fileSeen {
				return errs.BadData("there is more than one document part in the provided localization data")
			}
			fileSeen = true

			target := strings.TrimSpace(attr(t, "target-language"))
			if target == "" {
				return errs.BadData("target locale is not defined")
			}
			if err := locale.ValidateTag(target); err != nil {
				return err
			}
			p.targetLocale = target

			if err := p.parseFile(); err != nil {
				return err
			}
		case xml.EndElement:
			if !fileSeen {
				return errs.BadData("target locale was not found in the provided localization data")
			}
			return nil
		}
	}
}

func (p *parser) parseFile() error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "body":
				if err := p.parseBody(); err != nil {
					return err
				}
			default:
				// header and other metadata carry no template data
				if err := p.dec.Skip(); err != nil {
					return parseError(err)
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (p *parser) parseBody() error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "group" {
				return badStructure()
			}
			if err := p.parseTemplateGroup(t); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

// template-group: exactly one sms group and one email group, either order.
func (p *parser) parseTemplateGroup(se xml.StartElement) error {
	key, err := groupName(se)
	if err != nil {
		return err
	}

	tpl, err := p.templates.GetByKey(p.ctx, key)
	if err != nil {
		return err
	}

	first, err := p.mustStart("group")
	if err != nil {
		return err
	}
	firstName, err := groupName(first)
	if err != nil {
		return err
	}

	switch strings.ToLower(firstName) {
	case groupSms:
		if err := p.parseSmsGroup(tpl); err != nil {
			return err
		}
		if err := p.expectFormatGroup(groupEmail); err != nil {
			return err
		}
		if err := p.parseEmailGroup(tpl); err != nil {
			return err
		}
	case groupEmail:
		if err := p.parseEmailGroup(tpl); err != nil {
			return err
		}
		if err := p.expectFormatGroup(groupSms); err != nil {
			return err
		}
		if err := p.parseSmsGroup(tpl); err != nil {
			return err
		}
	default:
		return badStructure()
	}

	if err := p.mustEnd(); err != nil {
		return err
	}

	if tpl != nil {
		p.updated = append(p.updated, tpl)
	}
	return nil
}

func (p *parser) expectFormatGroup(name string) error {
	se, err := p.mustStart("group")
	if err != nil {
		return err
	}
	got, err := groupName(se)
	if err != nil {
		return err
	}
	if !strings.EqualFold(got, name) {
		return badStructure()
	}
	return nil
}

// sms-group: exactly one message unit.
func (p *parser) parseSmsGroup(tpl *model.Template) error {
	unit, err := p.mustStart("trans-unit")
	if err != nil {
		return err
	}
	name, target, err := p.readTransUnit(unit)
	if err != nil {
		return err
	}
	if !strings.EqualFold(name, unitMessage) {
		return badStructure()
	}

	if target != "" && tpl != nil && tpl.Sms != nil {
		tpl.Sms.Message = tpl.Sms.Message.Upsert(p.targetLocale, target)
	}

	return p.mustEnd()
}

// email-group: one subject unit and one content group, either order.
func (p *parser) parseEmailGroup(tpl *model.Template) error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	se, ok := tok.(xml.StartElement)
	if !ok {
		return badStructure()
	}

	switch se.Name.Local {
	case "trans-unit":
		if err := p.parseEmailSubject(se, tpl); err != nil {
			return err
		}
		content, err := p.mustStart("group")
		if err != nil {
			return err
		}
		if err := p.parseContentGroup(content, tpl); err != nil {
			return err
		}
	case "group":
		if err := p.parseContentGroup(se, tpl); err != nil {
			return err
		}
		subject, err := p.mustStart("trans-unit")
		if err != nil {
			return err
		}
		if err := p.parseEmailSubject(subject, tpl); err != nil {
			return err
		}
	default:
		return badStructure()
	}

	return p.mustEnd()
}

func (p *parser) parseEmailSubject(se xml.StartElement, tpl *model.Template) error {
	name, target, err := p.readTransUnit(se)
	if err != nil {
		return err
	}
	if !strings.EqualFold(name, unitSubject) {
		return badStructure()
	}

	if target != "" && tpl != nil && tpl.Email != nil {
		tpl.Email.Subject = tpl.Email.Subject.Upsert(p.targetLocale, target)
	}
	return nil
}

// content-group: units matched by layout input name against the target
// template's deduplicated content slots. Unmatched names are ignored.
func (p *parser) parseContentGroup(se xml.StartElement, tpl *model.Template) error {
	name, err := groupName(se)
	if err != nil {
		return err
	}
	if !strings.EqualFold(name, groupContent) {
		return badStructure()
	}

	var slots []model.ContentSlot
	if tpl != nil && tpl.Email != nil {
		tpl.Email.Contents = tpl.Email.DedupedContents()
		slots = tpl.Email.Contents
	}

	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "trans-unit" {
				return badStructure()
			}
			unitName, target, err := p.readTransUnit(t)
			if err != nil {
				return err
			}
			if target == "" {
				continue
			}
			for i := range slots {
				if slots[i].LayoutInput == unitName {
					slots[i].Template = slots[i].Template.Upsert(p.targetLocale, target)
					break
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

// readTransUnit consumes one trans-unit and returns its resname and target
// text. A blank target, including whitespace-only text, is returned as the
// empty string so the apply sites treat it as untranslated.
func (p *parser) readTransUnit(se xml.StartElement) (string, string, error) {
	name := strings.TrimSpace(attr(se, "resname"))
	if name == "" {
		return "", "", errs.BadData("there is at least one trans-unit missing the resname attribute needed for template mapping")
	}

	var target string
	for {
		tok, err := p.next()
		if err != nil {
			return "", "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "target":
				text, err := p.readText()
				if err != nil {
					return "", "", err
				}
				if strings.TrimSpace(text) == "" {
					text = ""
				}
				target = text
			default:
				if err := p.dec.Skip(); err != nil {
					return "", "", parseError(err)
				}
			}
		case xml.EndElement:
			return name, target, nil
		}
	}
}

// readText collects the character data of the current element, skipping
// any nested markup.
func (p *parser) readText() (string, error) {
	var b strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return "", parseError(err)
		}
		switch t := tok.(type) {
		case xml.CharData:
			b.Write(t)
		case xml.StartElement:
			if err := p.dec.Skip(); err != nil {
				return "", parseError(err)
			}
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

// next returns the next structural token, skipping whitespace, comments,
// and processing instructions.
func (p *parser) next() (xml.Token, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			return nil, parseError(err)
		}
		switch t := tok.(type) {
		case xml.StartElement, xml.EndElement:
			return tok, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, badStructure()
			}
		}
	}
}

func (p *parser) nextStart() (xml.StartElement, error) {
	tok, err := p.next()
	if err != nil {
		return xml.StartElement{}, err
	}
	se, ok := tok.(xml.StartElement)
	if !ok {
		return xml.StartElement{}, badStructure()
	}
	return se, nil
}

// mustStart consumes the next token, requiring a start element with the
// given local name.
func (p *parser) mustStart(local string) (xml.StartElement, error) {
	se, err := p.nextStart()
	if err != nil {
		return xml.StartElement{}, err
	}
	if se.Name.Local != local {
		return xml.StartElement{}, badStructure()
	}
	return se, nil
}

// mustEnd consumes the next token, requiring an end element.
func (p *parser) mustEnd() error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if _, ok := tok.(xml.EndElement); !ok {
		return badStructure()
	}
	return nil
}

func groupName(se xml.StartElement) (string, error) {
	name := strings.TrimSpace(attr(se, "resname"))
	if name == "" {
		return "", errs.BadData("there is at least one group missing the resname attribute needed for template mapping")
	}
	return name, nil
}

func attr(se xml.StartElement, name string) string {
	for _, a := range se.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

func badStructure() error {
	return errs.BadData("unsupported localization document structure, please export a fresh document to get the proper format")
}

func parseError(err error) error {
	return errs.BadData("error parsing provided localization data, no data was saved: %v", err)
}
