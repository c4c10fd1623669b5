package asset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/intro-viewer/internal/engine/model"
)

// dracoExtension is the glTF extension for Draco-compressed primitives.
const dracoExtension = "KHR_draco_mesh_compression"

type dracoPrimitive struct {
	BufferView int            `json:"bufferView"`
	Attributes map[string]int `json:"attributes"`
}

// decodeGLTF parses a binary or embedded-buffer glTF document into a node
// tree rooted at a "scene" group. Compressed primitives go through meshes.
func decodeGLTF(ctx context.Context, data []byte, meshes MeshDecoder) (*model.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("gltf decode: %w", err)
	}

	materials := make([]*model.Material, len(doc.Materials))
	for i, gm := range doc.Materials {
		mat := model.NewMaterial(gm.Name)
		if pbr := gm.PBRMetallicRoughness; pbr != nil {
			cf := pbr.BaseColorFactorOrDefault()
			mat.Color = [4]float32{float32(cf[0]), float32(cf[1]), float32(cf[2]), float32(cf[3])}
		}
		if gm.DoubleSided {
			mat.Side = model.DoubleSide
		}
		materials[i] = mat
	}

	// meshPrims[meshIdx] holds one model.Mesh per primitive
	meshPrims := make([][]*model.Mesh, len(doc.Meshes))
	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			geom, err := readPrimitive(ctx, doc, prim, meshes)
			if err != nil {
				return nil, fmt.Errorf("mesh %d primitive %d: %w", mi, pi, err)
			}
			mat := model.NewMaterial(gm.Name)
			if prim.Material != nil && *prim.Material < len(materials) {
				mat = materials[*prim.Material]
			}
			meshPrims[mi] = append(meshPrims[mi], model.NewMesh(geom, mat))
		}
	}

	nodes := make([]*model.Node, len(doc.Nodes))
	for i, gn := range doc.Nodes {
		name := gn.Name
		if name == "" {
			name = fmt.Sprintf("node_%d", i)
		}
		n := model.NewNode(name)

		t := gn.TranslationOrDefault()
		n.Position = mgl32.Vec3{float32(t[0]), float32(t[1]), float32(t[2])}
		s := gn.ScaleOrDefault()
		n.Scale = mgl32.Vec3{float32(s[0]), float32(s[1]), float32(s[2])}
		r := gn.RotationOrDefault() // [x, y, z, w]
		n.Orientation = mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}

		if gn.Mesh != nil && *gn.Mesh < len(meshPrims) {
			prims := meshPrims[*gn.Mesh]
			switch len(prims) {
			case 0:
			case 1:
				n.Mesh = prims[0]
			default:
				for pi, p := range prims {
					child := model.NewNode(fmt.Sprintf("%s_prim%d", name, pi))
					child.Mesh = p
					n.Add(child)
				}
			}
		}
		nodes[i] = n
	}

	hasParent := make([]bool, len(nodes))
	for i, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(nodes) && c != i && !hasParent[c] {
				nodes[i].Add(nodes[c])
				hasParent[c] = true
			}
		}
	}

	root := model.NewNode("scene")
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		for _, idx := range doc.Scenes[*doc.Scene].Nodes {
			if idx < len(nodes) && nodes[idx].Parent() == nil {
				root.Add(nodes[idx])
			}
		}
	} else {
		for i, n := range nodes {
			if !hasParent[i] {
				root.Add(n)
			}
		}
	}

	if len(root.Meshes()) == 0 {
		return nil, fmt.Errorf("gltf: document has no triangle meshes")
	}
	return root, nil
}

// readPrimitive reads positions, normals, COLOR_0 and indices.
func readPrimitive(ctx context.Context, doc *gltf.Document, prim *gltf.Primitive, meshes MeshDecoder) (*model.Geometry, error) {
	if raw, ok := prim.Extensions[dracoExtension]; ok {
		return readDracoPrimitive(ctx, doc, raw, meshes)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, fmt.Errorf("no POSITION attribute")
	}
	acc, err := accessor(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	positions, err := modeler.ReadPosition(doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	geom := &model.Geometry{Positions: positions}

	if idx, ok := prim.Attributes["NORMAL"]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		normals, err := modeler.ReadNormal(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("normals: %w", err)
		}
		geom.Normals = normals
	}

	if idx, ok := prim.Attributes["COLOR_0"]; ok {
		acc, err := accessor(doc, idx)
		if err != nil {
			return nil, fmt.Errorf("colors: %w", err)
		}
		colors, err := modeler.ReadColor(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("colors: %w", err)
		}
		geom.Colors = make([][4]float32, len(colors))
		for i, c := range colors {
			geom.Colors[i] = [4]float32{
				float32(c[0]) / 255, float32(c[1]) / 255, float32(c[2]) / 255, float32(c[3]) / 255,
			}
		}
	}

	if prim.Indices != nil {
		acc, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		indices, err := modeler.ReadIndices(doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("indices: %w", err)
		}
		geom.Indices = indices
	}
	return geom, nil
}

// accessor returns doc.Accessors[idx], rejecting indices outside the list.
func accessor(doc *gltf.Document, idx int) (*gltf.Accessor, error) {
	if idx < 0 || idx >= len(doc.Accessors) || doc.Accessors[idx] == nil {
		return nil, fmt.Errorf("accessor %d out of range (%d accessors)", idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func readDracoPrimitive(ctx context.Context, doc *gltf.Document, raw any, meshes MeshDecoder) (*model.Geometry, error) {
	if meshes == nil {
		return nil, ErrNoDecoder
	}

	// Unknown extensions are kept as raw JSON by the decoder.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("draco extension: %w", err)
	}
	var ext dracoPrimitive
	if err := json.Unmarshal(encoded, &ext); err != nil {
		return nil, fmt.Errorf("draco extension: %w", err)
	}
	if ext.BufferView < 0 || ext.BufferView >= len(doc.BufferViews) {
		return nil, fmt.Errorf("draco extension: buffer view %d out of range", ext.BufferView)
	}

	compressed, err := modeler.ReadBufferView(doc, doc.BufferViews[ext.BufferView])
	if err != nil {
		return nil, fmt.Errorf("draco buffer view: %w", err)
	}
	return meshes.DecodeMesh(ctx, compressed)
}
