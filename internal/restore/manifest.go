package restore

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/danmuck/restorectl/internal/msbuild"
)

// ManifestNamespace is the fixed schema namespace of generated manifests.
const ManifestNamespace = "http://schemas.microsoft.com/developer/msbuild/2003"

// WriteManifest serializes the single-purpose restore manifest: one
// PropertyGroup, one ItemGroup, one Import, in that exact order. The
// manifest is purely structural; project paths are not checked for
// existence. Properties with empty values are dropped, except the output
// path whose absence rejects the whole manifest.
func WriteManifest(w io.Writer, bag *PropertyBag, projects []string, targetsPath string) error {
	if bag == nil {
		return ErrMissingOutputPath
	}
	if v, ok := bag.Get(PropRestoreGraphOutputPath); !ok || v == "" {
		return ErrMissingOutputPath
	}
	if targetsPath == "" {
		return ErrMissingTargets
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("restore: write manifest: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")

	root := xml.StartElement{
		Name: xml.Name{Local: "Project"},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "ToolsVersion"}, Value: msbuild.ToolsVersion},
			{Name: xml.Name{Local: "xmlns"}, Value: ManifestNamespace},
		},
	}
	if err := enc.EncodeToken(root); err != nil {
		return fmt.Errorf("restore: write manifest: %w", err)
	}

	if err := encodePropertyGroup(enc, bag); err != nil {
		return err
	}
	if err := encodeItemGroup(enc, projects); err != nil {
		return err
	}

	importEl := xml.StartElement{
		Name: xml.Name{Local: "Import"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "Project"}, Value: targetsPath}},
	}
	if err := encodeEmpty(enc, importEl); err != nil {
		return err
	}

	if err := enc.EncodeToken(root.End()); err != nil {
		return fmt.Errorf("restore: write manifest: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return fmt.Errorf("restore: write manifest: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("restore: write manifest: %w", err)
	}
	return nil
}

// GenerateManifest renders the manifest into memory.
func GenerateManifest(bag *PropertyBag, projects []string, targetsPath string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteManifest(&buf, bag, projects, targetsPath); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodePropertyGroup(enc *xml.Encoder, bag *PropertyBag) error {
	group := xml.StartElement{Name: xml.Name{Local: "PropertyGroup"}}
	if err := enc.EncodeToken(group); err != nil {
		return fmt.Errorf("restore: write property group: %w", err)
	}
	for _, name := range bag.Names() {
		value, _ := bag.Get(name)
		if value == "" {
			continue
		}
		el := xml.StartElement{Name: xml.Name{Local: name}}
		if err := enc.EncodeElement(value, el); err != nil {
			return fmt.Errorf("restore: write property %s: %w", name, err)
		}
	}
	if err := enc.EncodeToken(group.End()); err != nil {
		return fmt.Errorf("restore: write property group: %w", err)
	}
	return nil
}

func encodeItemGroup(enc *xml.Encoder, projects []string) error {
	group := xml.StartElement{Name: xml.Name{Local: "ItemGroup"}}
	if err := enc.EncodeToken(group); err != nil {
		return fmt.Errorf("restore: write item group: %w", err)
	}
	for _, project := range projects {
		item := xml.StartElement{
			Name: xml.Name{Local: "ProjectReference"},
			Attr: []xml.Attr{{Name: xml.Name{Local: "Include"}, Value: project}},
		}
		if err := encodeEmpty(enc, item); err != nil {
			return err
		}
	}
	if err := enc.EncodeToken(group.End()); err != nil {
		return fmt.Errorf("restore: write item group: %w", err)
	}
	return nil
}

func encodeEmpty(enc *xml.Encoder, el xml.StartElement) error {
	if err := enc.EncodeToken(el); err != nil {
		return fmt.Errorf("restore: write %s: %w", el.Name.Local, err)
	}
	if err := enc.EncodeToken(el.End()); err != nil {
		return fmt.Errorf("restore: write %s: %w", el.Name.Local, err)
	}
	return nil
}
