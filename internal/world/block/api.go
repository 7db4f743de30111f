package block

import (
	"errors"
	"fmt"
)

// ErrUnknownBlock возвращается при преобразовании неизвестного числового ID в Type
var ErrUnknownBlock = errors.New("unknown block id")

// Type представляет тип вокселя. Значения стабильны и используются
// для поиска цвета и категории блока.
type Type uint16

// Константы типов блоков
const (
	Air   Type = iota // 0 — пустота, значение по умолчанию
	Stone             // 1
	Dirt              // 2
	Grass             // 3
	Water             // 4
	Sand              // 5
)

// FromID преобразует числовой идентификатор в Type.
// Неизвестные значения не интерпретируются, а возвращают ErrUnknownBlock.
func FromID(id uint16) (Type, error) {
	switch Type(id) {
	case Air:
		return Air, nil
	case Stone:
		return Stone, nil
	case Dirt:
		return Dirt, nil
	case Grass:
		return Grass, nil
	case Water:
		return Water, nil
	case Sand:
		return Sand, nil
	default:
		return Air, fmt.Errorf("%w: %d", ErrUnknownBlock, id)
	}
}

// All возвращает все определённые типы в порядке их значений
func All() []Type {
	return []Type{Air, Stone, Dirt, Grass, Water, Sand}
}

// ID возвращает числовой идентификатор типа
func (t Type) ID() uint16 {
	return uint16(t)
}

// IsAir возвращает true для пустого вокселя
func (t Type) IsAir() bool {
	return t == Air
}

// IsWater возвращает true для воды
func (t Type) IsWater() bool {
	return t == Water
}

// IsSolid возвращает true, если блок затеняет соседей.
// Воздух и вода не считаются твёрдыми.
func (t Type) IsSolid() bool {
	return t != Air && t != Water
}

// String возвращает имя типа из реестра свойств
func (t Type) String() string {
	if props, ok := Get(t); ok {
		return props.Name
	}
	return fmt.Sprintf("Unknown(%d)", uint16(t))
}
