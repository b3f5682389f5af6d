// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ir

import "fmt"

// Attribute is a dense enumeration of GPU-visible input/output slots: generic
// varyings, built-in outputs, legacy fixed-function slots, and tessellation
// and vertex/instance identifiers.
type Attribute int32

const (
	PositionX Attribute = iota
	PositionY
	PositionZ
	PositionW
	PointSize
	Layer
	ViewportIndex
	PrimitiveId

	Generic0X
	Generic0Y
	Generic0Z
	Generic0W
)

// Generic0X through Generic31W occupy 128 consecutive codes (32 slots of 4
// components each) starting at Generic0X, matching the layout the Maxwell
// decoder reads directly off the attribute address.
const genericCount = 32

// attributesAfterGenerics starts immediately after the last generic slot.
const attributesAfterGenerics = Generic0X + Attribute(genericCount*4)

const (
	ColorFrontDiffuseR Attribute = attributesAfterGenerics + iota
	ColorFrontDiffuseG
	ColorFrontDiffuseB
	ColorFrontDiffuseA
	ColorFrontSpecularR
	ColorFrontSpecularG
	ColorFrontSpecularB
	ColorFrontSpecularA
	ColorBackDiffuseR
	ColorBackDiffuseG
	ColorBackDiffuseB
	ColorBackDiffuseA
	ColorBackSpecularR
	ColorBackSpecularG
	ColorBackSpecularB
	ColorBackSpecularA

	ClipDistance0
	ClipDistance1
	ClipDistance2
	ClipDistance3
	ClipDistance4
	ClipDistance5
	ClipDistance6
	ClipDistance7

	PointSpriteS
	PointSpriteT
	FogCoordinate

	TessellationEvaluationPointU
	TessellationEvaluationPointV

	InstanceId
	VertexId

	FixedFncTexture0S
	FixedFncTexture0T
	FixedFncTexture0R
	FixedFncTexture0Q
	FixedFncTexture1S
	FixedFncTexture1T
	FixedFncTexture1R
	FixedFncTexture1Q
	FixedFncTexture2S
	FixedFncTexture2T
	FixedFncTexture2R
	FixedFncTexture2Q
	FixedFncTexture3S
	FixedFncTexture3T
	FixedFncTexture3R
	FixedFncTexture3Q
	FixedFncTexture4S
	FixedFncTexture4T
	FixedFncTexture4R
	FixedFncTexture4Q
	FixedFncTexture5S
	FixedFncTexture5T
	FixedFncTexture5R
	FixedFncTexture5Q
	FixedFncTexture6S
	FixedFncTexture6T
	FixedFncTexture6R
	FixedFncTexture6Q
	FixedFncTexture7S
	FixedFncTexture7T
	FixedFncTexture7R
	FixedFncTexture7Q
	FixedFncTexture8S
	FixedFncTexture8T
	FixedFncTexture8R
	FixedFncTexture8Q
	FixedFncTexture9S
	FixedFncTexture9T
	FixedFncTexture9R
	FixedFncTexture9Q

	ViewportMask
	FrontFace
)

// IsGeneric reports whether attribute addresses one of the 32 generic
// varying slots.
func IsGeneric(attribute Attribute) bool {
	return attribute >= Generic0X && attribute < attributesAfterGenerics
}

// GenericAttributeIndex returns the slot index in [0, 32) of a generic
// attribute. It fails with InvalidArgument for any non-generic attribute.
func GenericAttributeIndex(attribute Attribute) (uint32, error) {
	if !IsGeneric(attribute) {
		return 0, NewInvalidArgument([]interface{}{attribute}, "attribute is not generic")
	}
	return uint32(attribute-Generic0X) / 4, nil
}

// GenericAttributeElement returns the component index in [0, 4) of a generic
// attribute (0=X, 1=Y, 2=Z, 3=W). It fails with InvalidArgument for any
// non-generic attribute.
func GenericAttributeElement(attribute Attribute) (uint32, error) {
	if !IsGeneric(attribute) {
		return 0, NewInvalidArgument([]interface{}{attribute}, "attribute is not generic")
	}
	return uint32(attribute-Generic0X) % 4, nil
}

var attributeNames = map[Attribute]string{
	PositionX: "Position.X", PositionY: "Position.Y", PositionZ: "Position.Z", PositionW: "Position.W",
	PointSize: "PointSize", Layer: "Layer", ViewportIndex: "ViewportIndex", PrimitiveId: "PrimitiveId",

	ColorFrontDiffuseR: "ColorFrontDiffuse.R", ColorFrontDiffuseG: "ColorFrontDiffuse.G",
	ColorFrontDiffuseB: "ColorFrontDiffuse.B", ColorFrontDiffuseA: "ColorFrontDiffuse.A",
	ColorFrontSpecularR: "ColorFrontSpecular.R", ColorFrontSpecularG: "ColorFrontSpecular.G",
	ColorFrontSpecularB: "ColorFrontSpecular.B", ColorFrontSpecularA: "ColorFrontSpecular.A",
	ColorBackDiffuseR: "ColorBackDiffuse.R", ColorBackDiffuseG: "ColorBackDiffuse.G",
	ColorBackDiffuseB: "ColorBackDiffuse.B", ColorBackDiffuseA: "ColorBackDiffuse.A",
	ColorBackSpecularR: "ColorBackSpecular.R", ColorBackSpecularG: "ColorBackSpecular.G",
	ColorBackSpecularB: "ColorBackSpecular.B", ColorBackSpecularA: "ColorBackSpecular.A",

	ClipDistance0: "ClipDistance[0]", ClipDistance1: "ClipDistance[1]",
	ClipDistance2: "ClipDistance[2]", ClipDistance3: "ClipDistance[3]",
	ClipDistance4: "ClipDistance[4]", ClipDistance5: "ClipDistance[5]",
	ClipDistance6: "ClipDistance[6]", ClipDistance7: "ClipDistance[7]",

	PointSpriteS: "PointSprite.S", PointSpriteT: "PointSprite.T", FogCoordinate: "FogCoordinate",

	TessellationEvaluationPointU: "TessellationEvaluationPoint.U",
	TessellationEvaluationPointV: "TessellationEvaluationPoint.V",

	InstanceId: "InstanceId", VertexId: "VertexId",

	ViewportMask: "ViewportMask", FrontFace: "FrontFace",
}

// NameOf returns the printable name of an attribute, matching the naming the
// Maxwell decoder and disassembler use.
func NameOf(attribute Attribute) string {
	if IsGeneric(attribute) {
		index, _ := GenericAttributeIndex(attribute)
		element, _ := GenericAttributeElement(attribute)
		return fmt.Sprintf("Generic[%d].%s", index, "XYZW"[element:element+1])
	}
	if attribute >= FixedFncTexture0S && attribute <= FixedFncTexture9Q {
		offset := attribute - FixedFncTexture0S
		unit := offset / 4
		component := offset % 4
		return fmt.Sprintf("FixedFncTexture[%d].%s", unit, "STRQ"[component:component+1])
	}
	if name, ok := attributeNames[attribute]; ok {
		return name
	}
	return fmt.Sprintf("<reserved attribute %d>", int32(attribute))
}
