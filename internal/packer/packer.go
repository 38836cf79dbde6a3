// Package packer раскладывает вложения заказа по письмам ограниченного размера.
package packer

import (
	"math"
	"sort"

	"github.com/dimk00z/woocommerce-orders-sender/internal/model"
)

// DefaultFillRatio: доля лимита письма, доступная под вложения.
const DefaultFillRatio = 0.8

// Capacity возвращает вместимость одной группы для заданного лимита.
func Capacity(maxSize int64, fillRatio float64) int64 {
	return int64(math.Floor(float64(maxSize) * fillRatio))
}

type bin struct {
	load  int64
	names []string
}

// Pack раскладывает файлы по группам так, чтобы сумма размеров в группе не
// превышала Capacity(maxSize, fillRatio). Файл больше вместимости занимает
// отдельную группу. Результат детерминирован для одинакового входа.
func Pack(files []model.ProductFile, maxSize int64, fillRatio float64) [][]string {
	if len(files) == 0 {
		return nil
	}

	capacity := Capacity(maxSize, fillRatio)

	// Дубликаты по имени схлопываются, как в множестве файлов заказа.
	seen := make(map[string]struct{}, len(files))
	items := make([]model.ProductFile, 0, len(files))
	for _, f := range files {
		if _, ok := seen[f.FileName]; ok {
			continue
		}
		seen[f.FileName] = struct{}{}
		items = append(items, f)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].FileSize != items[j].FileSize {
			return items[i].FileSize > items[j].FileSize
		}
		return items[i].FileName < items[j].FileName
	})

	var bins []*bin
	for _, item := range items {
		placed := false
		if item.FileSize <= capacity {
			for _, b := range bins {
				if b.load+item.FileSize <= capacity {
					b.load += item.FileSize
					b.names = append(b.names, item.FileName)
					placed = true
					break
				}
			}
		}
		if !placed {
			bins = append(bins, &bin{load: item.FileSize, names: []string{item.FileName}})
		}
	}

	groups := make([][]string, 0, len(bins))
	for _, b := range bins {
		groups = append(groups, b.names)
	}
	return groups
}
