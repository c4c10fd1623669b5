package asset

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/intro-viewer/internal/engine/model"
)

// objCorner references one face corner; -1 means absent.
type objCorner struct {
	v, vn int
}

type objGroup struct {
	name    string
	corners []objCorner // Three per triangle
}

// parseOBJ reads Wavefront OBJ text into one geometry per object/group.
// A vertex line may carry an RGB color after the position
// ("v x y z r g b"); geometries get a color channel when every vertex has one.
func parseOBJ(data []byte) ([]string, []*model.Geometry, error) {
	var positions [][3]float32
	var colors [][4]float32
	var normals [][3]float32
	coloredVerts := 0

	var groups []objGroup
	cur := &objGroup{name: "default"}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, nil, fmt.Errorf("obj line %d: vertex needs 3 coordinates", lineNo)
			}
			p, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			positions = append(positions, [3]float32{p[0], p[1], p[2]})

			color := [4]float32{1, 1, 1, 1}
			if len(fields) >= 7 {
				c, err := parseFloats(fields[4:7])
				if err != nil {
					return nil, nil, fmt.Errorf("obj line %d: %w", lineNo, err)
				}
				color = [4]float32{c[0], c[1], c[2], 1}
				coloredVerts++
			}
			colors = append(colors, color)

		case "vn":
			if len(fields) < 4 {
				continue
			}
			n, err := parseFloats(fields[1:4])
			if err != nil {
				return nil, nil, fmt.Errorf("obj line %d: %w", lineNo, err)
			}
			normals = append(normals, [3]float32{n[0], n[1], n[2]})

		case "o", "g":
			if len(cur.corners) > 0 {
				groups = append(groups, *cur)
			}
			name := "default"
			if len(fields) > 1 {
				name = fields[1]
			}
			cur = &objGroup{name: name}

		case "f":
			if len(fields) < 4 {
				continue
			}
			corners := make([]objCorner, 0, len(fields)-1)
			for _, tok := range fields[1:] {
				c, err := parseCorner(tok, len(positions), len(normals))
				if err != nil {
					return nil, nil, fmt.Errorf("obj line %d: %w", lineNo, err)
				}
				corners = append(corners, c)
			}
			// Fan triangulation: 0-1-2, 0-2-3, ...
			for i := 1; i+1 < len(corners); i++ {
				cur.corners = append(cur.corners, corners[0], corners[i], corners[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(cur.corners) > 0 {
		groups = append(groups, *cur)
	}
	if len(groups) == 0 {
		return nil, nil, fmt.Errorf("obj: no faces")
	}

	withColors := coloredVerts > 0 && coloredVerts == len(positions)
	names := make([]string, 0, len(groups))
	geoms := make([]*model.Geometry, 0, len(groups))
	for _, g := range groups {
		geom := &model.Geometry{}
		hasNormals := true
		for _, c := range g.corners {
			geom.Positions = append(geom.Positions, positions[c.v])
			if withColors {
				geom.Colors = append(geom.Colors, colors[c.v])
			}
			if c.vn < 0 {
				hasNormals = false
			} else {
				geom.Normals = append(geom.Normals, normals[c.vn])
			}
		}
		if !hasNormals {
			geom.Normals = nil
		}
		names = append(names, g.name)
		geoms = append(geoms, geom)
	}
	return names, geoms, nil
}

// parseCorner resolves "v", "v/vt", "v//vn" or "v/vt/vn" to 0-based indices,
// honoring negative (relative) references.
func parseCorner(tok string, numV, numVN int) (objCorner, error) {
	parts := strings.Split(tok, "/")
	v, err := resolveIndex(parts[0], numV)
	if err != nil {
		return objCorner{}, fmt.Errorf("face vertex %q: %w", tok, err)
	}
	c := objCorner{v: v, vn: -1}
	if len(parts) >= 3 && parts[2] != "" {
		vn, err := resolveIndex(parts[2], numVN)
		if err != nil {
			return objCorner{}, fmt.Errorf("face normal %q: %w", tok, err)
		}
		c.vn = vn
	}
	return c, nil
}

func resolveIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		i = count + i
	} else {
		i--
	}
	if i < 0 || i >= count {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, count)
	}
	return i, nil
}

func parseFloats(fields []string) ([]float32, error) {
	out := make([]float32, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 32)
		if err != nil {
			return nil, err
		}
		out[i] = float32(v)
	}
	return out, nil
}

// decodeOBJ builds a node tree with one child mesh per OBJ group.
func decodeOBJ(data []byte) (*model.Node, error) {
	names, geoms, err := parseOBJ(data)
	if err != nil {
		return nil, err
	}
	root := model.NewNode("obj")
	for i, geom := range geoms {
		child := model.NewNode(names[i])
		child.Mesh = model.NewMesh(geom, model.NewMaterial(names[i]))
		root.Add(child)
	}
	return root, nil
}
