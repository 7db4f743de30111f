package meshing

import (
	"github.com/annel0/voxelstream/internal/vec"
	"github.com/annel0/voxelstream/internal/world"
)

// cornerConfig — соседи, влияющие на затенение одного угла грани +y
type cornerConfig struct {
	side1, side2, corner vec.Vec3
}

// Четыре угла грани +y. Для остальных граней смещения умножаются
// на направление и переставляются по оси (vec.Vec3.Permute).
var cornerConfigs = [4]cornerConfig{
	{side1: vec.New(0, 1, -1), side2: vec.New(-1, 1, 0), corner: vec.New(-1, 1, -1)},
	{side1: vec.New(0, 1, -1), side2: vec.New(1, 1, 0), corner: vec.New(1, 1, -1)},
	{side1: vec.New(0, 1, 1), side2: vec.New(1, 1, 0), corner: vec.New(1, 1, 1)},
	{side1: vec.New(0, 1, 1), side2: vec.New(-1, 1, 0), corner: vec.New(-1, 1, 1)},
}

// CornersPerFace — количество углов грани
const CornersPerFace = 4

// CornerOccluded сообщает, затенён ли угол corner грани face
func CornerOccluded(mask uint32, face Face, corner int) bool {
	return mask&(1<<uint(int(face)*CornersPerFace+corner)) != 0
}

// aoCategory возвращает уровень затенения угла: 0 — максимальное, 3 — нет затенения
func aoCategory(side1, side2, corner bool) int {
	if side1 && side2 {
		return 0
	}
	count := 0
	for _, solid := range [3]bool{side1, side2, corner} {
		if solid {
			count++
		}
	}
	return 3 - count
}

// OcclusionMask вычисляет маску затенённых углов одного вокселя.
// Бит (face*4 + corner) установлен, если уровень затенения угла меньше 3.
func OcclusionMask(chunk *world.Chunk, store world.ChunkStore, local vec.Vec3) uint32 {
	solidAt := func(offset vec.Vec3) bool {
		return sample(chunk, store, local.Add(offset)).IsSolid()
	}

	var mask uint32
	for axis := 0; axis < 3; axis++ {
		for _, dir := range [2]int{1, -1} {
			face := axis * 2
			if dir < 0 {
				face++
			}
			for corner, cfg := range cornerConfigs {
				side1 := solidAt(cfg.side1.Mul(dir).Permute(axis))
				side2 := solidAt(cfg.side2.Mul(dir).Permute(axis))
				diag := solidAt(cfg.corner.Mul(dir).Permute(axis))

				if aoCategory(side1, side2, diag) < 3 {
					mask |= 1 << uint(face*CornersPerFace+corner)
				}
			}
		}
	}
	return mask
}

// OcclusionMasks вычисляет маски затенения для всего чанка по готовым маскам граней.
// Воксели с нулевой маской граней пропускаются и получают нулевую маску.
func OcclusionMasks(chunk *world.Chunk, store world.ChunkStore, faces []uint8) []uint32 {
	masks := make([]uint32, world.ChunkVolume)
	for _, idx := range chunk.Occupied() {
		if faces[idx] == 0 {
			continue
		}
		masks[idx] = OcclusionMask(chunk, store, world.LocalFromIndex(idx))
	}
	return masks
}
