package renderer

const sceneVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aNormal;
layout (location = 2) in vec4 aColor;

uniform mat4 uModel;
uniform mat4 uView;
uniform mat4 uProjection;
uniform mat3 uNormalMatrix;

out vec3 vWorldPos;
out vec3 vNormal;
out vec4 vColor;
out float vViewDepth;

void main() {
	vec4 world = uModel * vec4(aPos, 1.0);
	vec4 view = uView * world;
	vWorldPos = world.xyz;
	vNormal = normalize(uNormalMatrix * aNormal);
	vColor = aColor;
	vViewDepth = -view.z;
	gl_Position = uProjection * view;
}
`

const sceneFragmentShader = `
#version 410 core

in vec3 vWorldPos;
in vec3 vNormal;
in vec4 vColor;
in float vViewDepth;

uniform vec4 uBaseColor;
uniform int uVertexColors;

uniform vec3 uSkyColor;
uniform vec3 uGroundColor;
uniform float uHemiIntensity;

uniform vec3 uDirColor;
uniform vec3 uDirToLight;
uniform float uDirIntensity;

uniform vec3 uPointPos;
uniform vec3 uPointColor;
uniform float uPointIntensity;
uniform float uPointDistance;
uniform float uPointDecay;

uniform vec3 uSpotPos;
uniform vec3 uSpotDir;
uniform vec3 uSpotColor;
uniform float uSpotIntensity;
uniform float uSpotDistance;
uniform float uSpotDecay;
uniform float uSpotConeCos;
uniform float uSpotPenumbraCos;

uniform int uFogEnabled;
uniform vec3 uFogColor;
uniform float uFogNear;
uniform float uFogFar;

uniform float uExposure;

out vec4 FragColor;

float distanceFalloff(float dist, float cutoff, float decay) {
	float falloff = 1.0 / max(pow(dist, decay), 0.01);
	if (cutoff > 0.0) {
		float r = clamp(1.0 - pow(dist / cutoff, 4.0), 0.0, 1.0);
		falloff *= r * r;
	}
	return falloff;
}

vec3 rrtAndOdtFit(vec3 v) {
	vec3 a = v * (v + 0.0245786) - 0.000090537;
	vec3 b = v * (0.983729 * v + 0.4329510) + 0.238081;
	return a / b;
}

vec3 acesFilmic(vec3 color) {
	const mat3 inputMat = mat3(
		vec3(0.59719, 0.07600, 0.02840),
		vec3(0.35458, 0.90834, 0.13383),
		vec3(0.04823, 0.01566, 0.83777));
	const mat3 outputMat = mat3(
		vec3( 1.60475, -0.10208, -0.00327),
		vec3(-0.53108,  1.10813, -0.07276),
		vec3(-0.07367, -0.00605,  1.07602));
	color *= uExposure / 0.6;
	color = inputMat * color;
	color = rrtAndOdtFit(color);
	color = outputMat * color;
	return clamp(color, 0.0, 1.0);
}

vec3 linearToSRGB(vec3 c) {
	vec3 lo = c * 12.92;
	vec3 hi = 1.055 * pow(c, vec3(1.0 / 2.4)) - 0.055;
	return mix(lo, hi, step(vec3(0.0031308), c));
}

void main() {
	vec3 n = normalize(vNormal);
	if (!gl_FrontFacing) {
		n = -n;
	}

	vec4 albedo = uBaseColor;
	if (uVertexColors != 0) {
		albedo *= vColor;
	}

	// Hemisphere
	float hemi = 0.5 * n.y + 0.5;
	vec3 light = mix(uGroundColor, uSkyColor, hemi) * uHemiIntensity;

	// Directional
	light += uDirColor * uDirIntensity * max(dot(n, normalize(uDirToLight)), 0.0);

	// Point
	vec3 toPoint = uPointPos - vWorldPos;
	float pointDist = length(toPoint);
	light += uPointColor * uPointIntensity
		* max(dot(n, toPoint / max(pointDist, 0.0001)), 0.0)
		* distanceFalloff(pointDist, uPointDistance, uPointDecay);

	// Spot
	vec3 toSpot = uSpotPos - vWorldPos;
	float spotDist = length(toSpot);
	vec3 l = toSpot / max(spotDist, 0.0001);
	float cone = smoothstep(uSpotConeCos, uSpotPenumbraCos, dot(-l, normalize(uSpotDir)));
	light += uSpotColor * uSpotIntensity * cone
		* max(dot(n, l), 0.0)
		* distanceFalloff(spotDist, uSpotDistance, uSpotDecay);

	// Lambert BRDF
	vec3 color = albedo.rgb * light / 3.14159265;
	color = acesFilmic(color);

	if (uFogEnabled != 0) {
		float f = smoothstep(uFogNear, uFogFar, vViewDepth);
		color = mix(color, uFogColor, f);
	}

	FragColor = vec4(linearToSRGB(color), albedo.a);
}
`
