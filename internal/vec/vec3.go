package vec

import (
	"errors"
	"fmt"
)

// ErrNegativeCoordinate возвращается при попытке превратить координату
// с отрицательной компонентой в индекс плотного массива.
var ErrNegativeCoordinate = errors.New("negative coordinate")

// Vec3 представляет трехмерный вектор с целочисленными координатами
type Vec3 struct {
	X int
	Y int
	Z int
}

// New создаёт вектор из трёх компонент
func New(x, y, z int) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// neighbors — смещения шести граней в фиксированном порядке: +y, -y, +x, -x, +z, -z.
// Порядок определяет номера битов в маске граней.
var neighbors = [6]Vec3{
	{X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0},
	{X: 1, Y: 0, Z: 0}, {X: -1, Y: 0, Z: 0},
	{X: 0, Y: 0, Z: 1}, {X: 0, Y: 0, Z: -1},
}

// Neighbors возвращает смещения к шести соседям по граням
func Neighbors() [6]Vec3 {
	return neighbors
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub вычитает другой вектор
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Mul умножает вектор на скаляр
func (v Vec3) Mul(scalar int) Vec3 {
	return Vec3{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar}
}

// Neg возвращает противоположный вектор
func (v Vec3) Neg() Vec3 {
	return v.Mul(-1)
}

// Up возвращает соседнюю позицию сверху
func (v Vec3) Up() Vec3 {
	return v.Add(Vec3{Y: 1})
}

// Down возвращает соседнюю позицию снизу
func (v Vec3) Down() Vec3 {
	return v.Add(Vec3{Y: -1})
}

// Permute переставляет оси так, чтобы логика, записанная для оси Y,
// применялась к оси axis. Оси нумеруются в порядке граней (см. Neighbors):
//
//	0 — ось Y, без изменений
//	1 — ось X, X и Y меняются местами (yxz)
//	2 — ось Z, Y и Z меняются местами (xzy)
//
// Перестановка является инволюцией: v.Permute(a).Permute(a) == v.
func (v Vec3) Permute(axis int) Vec3 {
	switch axis {
	case 0:
		return v
	case 1:
		return Vec3{X: v.Y, Y: v.X, Z: v.Z}
	case 2:
		return Vec3{X: v.X, Y: v.Z, Z: v.Y}
	default:
		panic(fmt.Sprintf("vec: invalid axis %d", axis))
	}
}

// MagnitudeSquared возвращает квадрат длины вектора.
// Корень не извлекается: проверки попадания в сферу остаются точными.
func (v Vec3) MagnitudeSquared() int {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// DistanceSquared возвращает квадрат расстояния до другого вектора
func (v Vec3) DistanceSquared(other Vec3) int {
	return v.Sub(other).MagnitudeSquared()
}

// DivEuclid делит каждую компоненту с округлением вниз (d > 0)
func (v Vec3) DivEuclid(d int) Vec3 {
	return Vec3{X: FloorDiv(v.X, d), Y: FloorDiv(v.Y, d), Z: FloorDiv(v.Z, d)}
}

// ModEuclid возвращает неотрицательный остаток по каждой компоненте (d > 0)
func (v Vec3) ModEuclid(d int) Vec3 {
	return Vec3{X: Mod(v.X, d), Y: Mod(v.Y, d), Z: Mod(v.Z, d)}
}

// ToNonNegativeTriplet возвращает компоненты для индексации плотного массива
func (v Vec3) ToNonNegativeTriplet() (x, y, z int, err error) {
	if v.X < 0 || v.Y < 0 || v.Z < 0 {
		return 0, 0, 0, fmt.Errorf("%w: %s", ErrNegativeCoordinate, v)
	}
	return v.X, v.Y, v.Z, nil
}

// Equals проверяет равенство векторов
func (v Vec3) Equals(other Vec3) bool {
	return v.X == other.X && v.Y == other.Y && v.Z == other.Z
}

// ToVec2 возвращает колонку (X, Z), в которой лежит позиция
func (v Vec3) ToVec2() Vec2 {
	return Vec2{X: v.X, Y: v.Z}
}

// String реализует fmt.Stringer
func (v Vec3) String() string {
	return fmt.Sprintf("x:%d, y:%d z:%d", v.X, v.Y, v.Z)
}

// FloorDiv — целочисленное деление с округлением к минус бесконечности
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Mod — остаток, всегда лежащий в [0, b) для b > 0
func Mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
