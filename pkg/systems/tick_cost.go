package systems

import "github.com/decker502/pvzsim/pkg/components"

// EstimateTickCost 估算一个 tick 的工作量
//
// 每行的代价为 1 + 植物数 + 僵尸数 + 植物数×僵尸数（植物索敌需要遍历同行僵尸）。
// dueByRow[row] 为本 tick 开始时将要加入该行的预约僵尸数（可为 nil），
// 它们计入僵尸数，并且每次生成本身再计 1。
func EstimateTickCost(grid *components.LawnGridComponent, dueByRow []int) int {
	cost := 0
	for row := 0; row < grid.Rows; row++ {
		plants := 0
		for _, id := range grid.Occupancy[row] {
			if id != 0 {
				plants++
			}
		}
		zombies := len(grid.Lanes[row])
		if row < len(dueByRow) {
			zombies += dueByRow[row]
			cost += dueByRow[row]
		}
		cost += 1 + plants + zombies + plants*zombies
	}
	return cost
}
