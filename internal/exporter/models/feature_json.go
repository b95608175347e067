package models

import (
	"encoding/json"
	"fmt"

	"github.com/iancoleman/strcase"
	"github.com/paulmach/orb/geojson"
)

// ============================================================
// GeoJSON encoding
// ============================================================

// NormalizeKind приводит имя типа из редактора или импорта к каноническому виду:
// "flight_line", "FlightLine" и "flightLine" дают один Kind.
func NormalizeKind(raw string) Kind {
	name := strcase.ToLowerCamel(raw)
	switch Kind(name) {
	case KindTee, KindBasket, KindDropzone, KindMandatory, KindFlightLine, KindOBZone,
		KindOBLine, KindFairway, KindDropzoneArea, KindAnnotation, KindLandmark,
		KindTerrain, KindPath, KindTree:
		return Kind(name)
	}
	if name == "infrastructure" {
		return KindTerrain
	}
	return KindUnknown
}

// UnmarshalJSON читает GeoJSON Feature с properties.type.
func (f *Feature) UnmarshalJSON(data []byte) error {
	raw, err := geojson.UnmarshalFeature(data)
	if err != nil {
		return fmt.Errorf("decode feature: %w", err)
	}

	props := raw.Properties
	if props == nil {
		props = geojson.Properties{}
	}

	f.Geometry = raw.Geometry
	f.ID = props.MustString("id", "")
	if f.ID == "" {
		if id, ok := raw.ID.(string); ok {
			f.ID = id
		} else if raw.ID != nil {
			f.ID = fmt.Sprint(raw.ID)
		}
	}
	f.HoleID = props.MustString("holeId", "")

	typeName := props.MustString("type", "")
	f.Props, err = decodeProps(typeName, props)
	if err != nil {
		return fmt.Errorf("decode %q properties of feature %q: %w", typeName, f.ID, err)
	}
	return nil
}

// MarshalJSON пишет фичу обратно в GeoJSON, properties.type: из варианта Props.
func (f Feature) MarshalJSON() ([]byte, error) {
	out := geojson.NewFeature(f.Geometry)
	if f.ID != "" {
		out.ID = f.ID
	}

	props := geojson.Properties{}
	if f.Props != nil {
		blob, err := json.Marshal(f.Props)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(blob, &props); err != nil {
			return nil, err
		}
	}
	if u, ok := f.Props.(UnknownProps); ok {
		props["type"] = u.Type
	} else {
		props["type"] = string(f.Kind())
	}
	if f.ID != "" {
		props["id"] = f.ID
	}
	if f.HoleID != "" {
		props["holeId"] = f.HoleID
	}
	out.Properties = props

	return out.MarshalJSON()
}

func decodeProps(typeName string, props geojson.Properties) (Props, error) {
	blob, err := json.Marshal(props)
	if err != nil {
		return nil, err
	}

	kind := NormalizeKind(typeName)
	switch kind {
	case KindTee:
		return decodeInto[TeeProps](blob)
	case KindBasket:
		return decodeInto[BasketProps](blob)
	case KindDropzone:
		return decodeInto[DropzoneProps](blob)
	case KindMandatory:
		return decodeInto[MandatoryProps](blob)
	case KindFlightLine:
		return decodeInto[FlightLineProps](blob)
	case KindOBZone:
		return decodeInto[OBZoneProps](blob)
	case KindOBLine:
		return decodeInto[OBLineProps](blob)
	case KindFairway:
		return decodeInto[FairwayProps](blob)
	case KindDropzoneArea:
		return decodeInto[DropzoneAreaProps](blob)
	case KindAnnotation:
		return decodeInto[AnnotationProps](blob)
	case KindLandmark:
		return decodeInto[LandmarkProps](blob)
	case KindTerrain:
		p, err := decodeInto[TerrainProps](blob)
		if err != nil {
			return nil, err
		}
		if strcase.ToLowerCamel(typeName) == "infrastructure" {
			p.Infrastructure = true
			if p.TerrainType == "" {
				p.TerrainType = TerrainConcrete
			}
		}
		p.TerrainType = TerrainType(strcase.ToLowerCamel(string(p.TerrainType))).Valid()
		return p, nil
	case KindPath:
		return decodeInto[PathProps](blob)
	case KindTree:
		p, err := decodeInto[TreeProps](blob)
		if err != nil {
			return nil, err
		}
		p.TreeType = TreeType(strcase.ToLowerCamel(string(p.TreeType))).Valid()
		return p, nil
	}
	return UnknownProps{Type: typeName}, nil
}

func decodeInto[T Props](blob []byte) (T, error) {
	var p T
	err := json.Unmarshal(blob, &p)
	return p, err
}
