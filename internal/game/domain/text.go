package domain

import "fmt"

// 枚举在 JSON/YAML 中按名字编码，场景文件和 journal 都是人可读的。

func (v BuildingType) MarshalText() ([]byte, error) { return marshalEnum(buildingNames, v) }

func (v *BuildingType) UnmarshalText(b []byte) error { return unmarshalEnum(buildingNames, "BuildingType", b, v) }

func (v MaterialType) MarshalText() ([]byte, error) { return marshalEnum(materialNames, v) }

func (v *MaterialType) UnmarshalText(b []byte) error { return unmarshalEnum(materialNames, "MaterialType", b, v) }

func (v MovableType) MarshalText() ([]byte, error) { return marshalEnum(movableNames, v) }

func (v *MovableType) UnmarshalText(b []byte) error { return unmarshalEnum(movableNames, "MovableType", b, v) }

func (v ResourceType) MarshalText() ([]byte, error) { return marshalEnum(resourceNames, v) }

func (v *ResourceType) UnmarshalText(b []byte) error { return unmarshalEnum(resourceNames, "ResourceType", b, v) }

func (v SoldierType) MarshalText() ([]byte, error) { return marshalEnum(soldierNames, v) }

func (v *SoldierType) UnmarshalText(b []byte) error { return unmarshalEnum(soldierNames, "SoldierType", b, v) }

func (v ShipType) MarshalText() ([]byte, error) { return marshalEnum(shipNames, v) }

func (v *ShipType) UnmarshalText(b []byte) error { return unmarshalEnum(shipNames, "ShipType", b, v) }

func (v MoveToType) MarshalText() ([]byte, error) { return marshalEnum(moveToNames, v) }

func (v *MoveToType) UnmarshalText(b []byte) error { return unmarshalEnum(moveToNames, "MoveToType", b, v) }

func (v SpellType) MarshalText() ([]byte, error) { return marshalEnum(spellNames, v) }

func (v *SpellType) UnmarshalText(b []byte) error { return unmarshalEnum(spellNames, "SpellType", b, v) }

func (v WaypointType) MarshalText() ([]byte, error) { return marshalEnum(waypointNames, v) }

func (v *WaypointType) UnmarshalText(b []byte) error { return unmarshalEnum(waypointNames, "WaypointType", b, v) }

func (v Civilisation) MarshalText() ([]byte, error) { return marshalEnum(civNames, v) }

func (v *Civilisation) UnmarshalText(b []byte) error { return unmarshalEnum(civNames, "Civilisation", b, v) }

func marshalEnum[T ~uint8](names []string, v T) ([]byte, error) {
	if int(v) >= len(names) {
		return nil, fmt.Errorf("enum value %d out of range", v)
	}
	return []byte(names[v]), nil
}

func unmarshalEnum[T ~uint8](names []string, typ string, b []byte, out *T) error {
	v, ok := parseEnum[T](names, string(b))
	if !ok {
		return fmt.Errorf("unknown %s %q", typ, string(b))
	}
	*out = v
	return nil
}

func (v Priority) MarshalText() ([]byte, error) { return marshalEnum(priorityNames, v) }

func (v *Priority) UnmarshalText(b []byte) error { return unmarshalEnum(priorityNames, "Priority", b, v) }
