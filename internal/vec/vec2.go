package vec

// Vec2 представляет 2D координаты колонки мира (X, Z).
// Используется как ключ кэша высот генератора.
type Vec2 struct {
	X, Y int
}

// DistanceSquaredTo возвращает квадрат расстояния до другой колонки
func (v Vec2) DistanceSquaredTo(other Vec2) int {
	dx := v.X - other.X
	dy := v.Y - other.Y
	return dx*dx + dy*dy
}

// ToVec3 поднимает колонку на высоту y
func (v Vec2) ToVec3(y int) Vec3 {
	return Vec3{X: v.X, Y: y, Z: v.Y}
}
