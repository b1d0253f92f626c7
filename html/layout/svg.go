package layout

import (
	"strings"

	"github.com/beevik/etree"

	"github.com/minkbrowser/mink/html/tree"
)

// The HTML parser lowercases every tag and attribute name, but SVG
// is case sensitive. These maps restore the canonical casing before
// the subtree is handed to an SVG renderer.
var svgTagCase = map[string]string{
	"clippath":            "clipPath",
	"lineargradient":      "linearGradient",
	"radialgradient":      "radialGradient",
	"foreignobject":       "foreignObject",
	"textpath":            "textPath",
	"fecolormatrix":       "feColorMatrix",
	"fecomponenttransfer": "feComponentTransfer",
	"fecomposite":         "feComposite",
	"feconvolvematrix":    "feConvolveMatrix",
	"fediffuselighting":   "feDiffuseLighting",
	"fedisplacementmap":   "feDisplacementMap",
	"fedistantlight":      "feDistantLight",
	"fedropshadow":        "feDropShadow",
	"feflood":             "feFlood",
	"fefunca":             "feFuncA",
	"fefuncb":             "feFuncB",
	"fefuncg":             "feFuncG",
	"fefuncr":             "feFuncR",
	"fegaussianblur":      "feGaussianBlur",
	"feimage":             "feImage",
	"femerge":             "feMerge",
	"femergenode":         "feMergeNode",
	"femorphology":        "feMorphology",
	"feoffset":            "feOffset",
	"fepointlight":        "fePointLight",
	"fespecularlighting":  "feSpecularLighting",
	"fespotlight":         "feSpotLight",
	"fetile":              "feTile",
	"feturbulence":        "feTurbulence",
}

var svgAttrCase = map[string]string{
	"viewbox":             "viewBox",
	"preserveaspectratio": "preserveAspectRatio",
	"gradientunits":       "gradientUnits",
	"gradienttransform":   "gradientTransform",
	"spreadmethod":        "spreadMethod",
	"patternunits":        "patternUnits",
	"patterncontentunits": "patternContentUnits",
	"patterntransform":    "patternTransform",
	"clippathunits":       "clipPathUnits",
	"maskunits":           "maskUnits",
	"maskcontentunits":    "maskContentUnits",
	"markerunits":         "markerUnits",
	"markerwidth":         "markerWidth",
	"markerheight":        "markerHeight",
	"refx":                "refX",
	"refy":                "refY",
	"pathlength":          "pathLength",
	"textlength":          "textLength",
	"lengthadjust":        "lengthAdjust",
	"startoffset":         "startOffset",
	"basefrequency":       "baseFrequency",
	"numoctaves":          "numOctaves",
	"stddeviation":        "stdDeviation",
	"tablevalues":         "tableValues",
	"attributename":       "attributeName",
	"attributetype":       "attributeType",
	"repeatcount":         "repeatCount",
	"repeatdur":           "repeatDur",
	"keytimes":            "keyTimes",
	"keysplines":          "keySplines",
	"keypoints":           "keyPoints",
	"calcmode":            "calcMode",
	"diffuseconstant":     "diffuseConstant",
	"specularconstant":    "specularConstant",
	"specularexponent":    "specularExponent",
	"surfacescale":        "surfaceScale",
	"limitingconeangle":   "limitingConeAngle",
	"pointsatx":           "pointsAtX",
	"pointsaty":           "pointsAtY",
	"pointsatz":           "pointsAtZ",
	"primitiveunits":      "primitiveUnits",
	"filterunits":         "filterUnits",
	"kernelmatrix":        "kernelMatrix",
	"kernelunitlength":    "kernelUnitLength",
	"edgemode":            "edgeMode",
	"targetx":             "targetX",
	"targety":             "targetY",
	"xchannelselector":    "xChannelSelector",
	"ychannelselector":    "yChannelSelector",
	"zoomandpan":          "zoomAndPan",
}

func svgTagName(tag string) string {
	if canonical, ok := svgTagCase[tag]; ok {
		return canonical
	}
	return tag
}

func svgAttrName(name string) string {
	if canonical, ok := svgAttrCase[name]; ok {
		return canonical
	}
	return name
}

// serializeSvgXML rebuilds the svg subtree as standalone XML so the
// paint backend can rasterize it.
func serializeSvgXML(el *tree.Element) string {
	doc := etree.NewDocument()
	doc.SetRoot(buildSvgElement(el))
	out, err := doc.WriteToString()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func buildSvgElement(el *tree.Element) *etree.Element {
	out := etree.NewElement(svgTagName(el.Tag()))
	for _, attr := range el.Attributes() {
		out.CreateAttr(svgAttrName(attr.Name), attr.Value)
	}
	if el.Tag() == "svg" && out.SelectAttr("xmlns") == nil {
		out.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	}
	for _, child := range el.Children {
		if child.Element != nil {
			out.AddChild(buildSvgElement(child.Element))
			continue
		}
		if strings.TrimSpace(child.Text) != "" {
			out.CreateText(child.Text)
		}
	}
	return out
}
