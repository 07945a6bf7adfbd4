package localization

import (
	"context"
	"encoding/xml"
	"fmt"

	"github.com/dsgov-acme/devstream-notification-service/internal/errs"
	"github.com/dsgov-acme/devstream-notification-service/internal/locale"
	"github.com/dsgov-acme/devstream-notification-service/internal/model"
	"github.com/dsgov-acme/devstream-notification-service/internal/service"
)

// Service exports and imports localization data for every stored template.
type Service struct {
	templates service.TemplateStore
}

func NewService(templates service.TemplateStore) *Service {
	return &Service{templates: templates}
}

// Export builds the exchange document for targetTag against defaultTag as
// the source locale. Both tags must be well-formed BCP 47.
func (s *Service) Export(ctx context.Context, targetTag, defaultTag string) ([]byte, error) {
	if err := locale.ValidateTag(targetTag); err != nil {
		return nil, err
	}
	if err := locale.ValidateTag(defaultTag); err != nil {
		return nil, err
	}

	templates, err := s.templates.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	doc := xliffDocument{
		Version: xliffVersion,
		Xmlns:   xliffNamespace,
		File: xliffFile{
			Original:       "notification-templates",
			SourceLanguage: defaultTag,
			TargetLanguage: targetTag,
			Datatype:       "plaintext",
			ToolID:         toolID,
		},
	}

	for _, tpl := range templates {
		doc.File.Body.Groups = append(doc.File.Body.Groups, templateGroup(tpl, defaultTag, targetTag))
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errs.BadData("error generating localization data: %v", err)
	}
	return append([]byte(xml.Header), data...), nil
}

func templateGroup(tpl *model.Template, defaultTag, targetTag string) xliffGroup {
	return xliffGroup{
		Resname: tpl.Key,
		Groups: []xliffGroup{
			smsGroup(tpl, defaultTag, targetTag),
			emailGroup(tpl, defaultTag, targetTag),
		},
	}
}

func smsGroup(tpl *model.Template, defaultTag, targetTag string) xliffGroup {
	var set model.LocalizedStringSet
	if tpl.Sms != nil {
		set = tpl.Sms.Message
	}
	return xliffGroup{
		Resname: groupSms,
		Units:   []xliffUnit{textUnit(tpl.Key, unitMessage, set, defaultTag, targetTag)},
	}
}

func emailGroup(tpl *model.Template, defaultTag, targetTag string) xliffGroup {
	var subject model.LocalizedStringSet
	var slots []model.ContentSlot
	if tpl.Email != nil {
		subject = tpl.Email.Subject
		slots = tpl.Email.DedupedContents()
	}

	content := xliffGroup{Resname: groupContent}
	for _, slot := range slots {
		content.Units = append(content.Units,
			textUnit(tpl.Key, slot.LayoutInput, slot.Template, defaultTag, targetTag))
	}

	return xliffGroup{
		Resname: groupEmail,
		Units:   []xliffUnit{textUnit(tpl.Key, unitSubject, subject, defaultTag, targetTag)},
		Groups:  []xliffGroup{content},
	}
}

// textUnit writes one translation unit: source is the value at the default
// locale and target the value at the target locale, blank when absent.
func textUnit(templateKey, resname string, set model.LocalizedStringSet, defaultTag, targetTag string) xliffUnit {
	source, _ := set.Get(defaultTag)
	target, _ := set.Get(targetTag)
	return xliffUnit{
		ID:      fmt.Sprintf("%s.%s", templateKey, resname),
		Resname: resname,
		Source:  source,
		Target:  target,
	}
}
