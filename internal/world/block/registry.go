package block

import "github.com/go-gl/mathgl/mgl32"

// Properties описывает статические свойства типа блока,
// которые нужны построителю меша.
type Properties struct {
	Name  string
	Color mgl32.Vec3
}

// defaultColor используется для типов без собственного цвета (воздух)
var defaultColor = mgl32.Vec3{0.0, 0.0, 0.2}

// registry заполняется один раз при инициализации пакета и дальше только читается
var registry = map[Type]Properties{
	Air:   {Name: "Air", Color: defaultColor},
	Stone: {Name: "Stone", Color: mgl32.Vec3{0.2, 0.2, 0.2}},
	Dirt:  {Name: "Dirt", Color: mgl32.Vec3{0.5, 0.25, 0.1}}, // 133, 67, 18
	Grass: {Name: "Grass", Color: mgl32.Vec3{0.1, 0.3, 0.0}},
	Water: {Name: "Water", Color: mgl32.Vec3{0.05, 0.15, 0.5}},
	Sand:  {Name: "Sand", Color: mgl32.Vec3{0.7, 0.5, 0.1}}, // 229, 192, 123
}

// Get возвращает свойства для указанного типа
func Get(t Type) (Properties, bool) {
	props, exists := registry[t]
	return props, exists
}

// IsValid проверяет, является ли тип известным
func IsValid(t Type) bool {
	_, exists := registry[t]
	return exists
}

// Color возвращает цвет блока для отрисовки
func (t Type) Color() mgl32.Vec3 {
	if props, ok := registry[t]; ok {
		return props.Color
	}
	return defaultColor
}
