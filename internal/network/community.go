package network

import "sort"

// detectModules partitions the graph into modules by greedy modularity
// maximization: every node starts in its own community and the connected
// pair with the highest modularity gain is merged until no merge improves
// modularity. Candidate pairs are scanned in ascending index order, so the
// same input ordering always yields the same partition.
func detectModules(adj *adjacency) ([]int, int) {
  n := len(adj.symbols)
  moduleOf := make([]int, n)
  if n == 0 {
    return moduleOf, 0
  }

  twoM := 0
  for i := range adj.neighbors {
    twoM += len(adj.neighbors[i])
  }
  if twoM == 0 {
    // All isolated: one singleton module per node, in insertion order.
    for i := range moduleOf {
      moduleOf[i] = i
    }
    return moduleOf, n
  }
  m := float64(twoM) / 2

  degSum := make([]float64, n)
  active := make([]bool, n)
  members := make([][]int, n)
  links := make([]map[int]float64, n)
  for i := 0; i < n; i++ {
    degSum[i] = float64(len(adj.neighbors[i]))
    active[i] = true
    members[i] = []int{i}
    links[i] = map[int]float64{}
  }
  for i := 0; i < n; i++ {
    for _, j := range adj.neighbors[i] {
      if i < j {
        links[i][j]++
        links[j][i]++
      }
    }
  }

  const eps = 1e-12
  for {
    bestDelta := 0.0
    bestI, bestJ := -1, -1
    for i := 0; i < n; i++ {
      if !active[i] {
        continue
      }
      neigh := make([]int, 0, len(links[i]))
      for j := range links[i] {
        if j > i && active[j] {
          neigh = append(neigh, j)
        }
      }
      sort.Ints(neigh)
      for _, j := range neigh {
        delta := links[i][j]/m - degSum[i]*degSum[j]/(2*m*m)
        if delta > bestDelta+eps {
          bestDelta = delta
          bestI = i
          bestJ = j
        }
      }
    }
    if bestI < 0 {
      break
    }

    // Merge the higher-indexed community into the lower-indexed one.
    for k, w := range links[bestJ] {
      if k == bestI {
        continue
      }
      links[bestI][k] += w
      links[k][bestI] += w
      delete(links[k], bestJ)
    }
    delete(links[bestI], bestJ)
    degSum[bestI] += degSum[bestJ]
    members[bestI] = append(members[bestI], members[bestJ]...)
    members[bestJ] = nil
    links[bestJ] = nil
    active[bestJ] = false
  }

  // Number modules by their smallest member index so ids are stable.
  communityRoots := make([]int, 0)
  for i := 0; i < n; i++ {
    if active[i] {
      communityRoots = append(communityRoots, i)
    }
  }
  sort.Slice(communityRoots, func(a, b int) bool {
    return minMember(members[communityRoots[a]]) < minMember(members[communityRoots[b]])
  })
  for moduleID, root := range communityRoots {
    for _, node := range members[root] {
      moduleOf[node] = moduleID
    }
  }
  return moduleOf, len(communityRoots)
}

func minMember(nodes []int) int {
  min := nodes[0]
  for _, v := range nodes[1:] {
    if v < min {
      min = v
    }
  }
  return min
}
