package renderer

// Built-in shader sources. Both fragment stages share the same light
// interface: up to MaxLights directions/colors in fixed-size arrays plus an
// integer count, with the loop breaking at the count so stale array slots
// never leak into the sum.

// MaxLights is the per-frame cap on packed directional lights.
const MaxLights = 8

const builtinVertSrc = `
#version 410 core
in vec3 aPosition;
in vec3 aNormal;
in vec2 aTexCoord;

uniform mat4 uViewProj;
uniform mat4 uModel;
uniform mat3 uNormalMat;

out vec3 vNormal;
out vec3 vWorldPos;
out vec2 vTexCoord;

void main() {
    vec4 worldPos = uModel * vec4(aPosition, 1.0);
    gl_Position = uViewProj * worldPos;
    vWorldPos   = worldPos.xyz;
    vNormal     = uNormalMat * aNormal;
    vTexCoord   = aTexCoord;
}
`

// defaultFragSrc: Lambertian diffuse accumulated over the active lights,
// hemisphere ambient keyed on the world normal's Z, and a rim term driven
// by the first light only.
const defaultFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vTexCoord;

out vec4 outColor;

#define MAX_LIGHTS 8
uniform vec3 uLightDirs[MAX_LIGHTS];
uniform vec3 uLightColors[MAX_LIGHTS];
uniform int  uLightCount;
uniform vec3 uAmbient;
uniform vec3 uCameraPos;

uniform vec4 uBaseColor;

void main() {
    vec3 N = normalize(vNormal);
    vec3 V = normalize(uCameraPos - vWorldPos);

    vec3 diffuse = vec3(0.0);
    for (int i = 0; i < MAX_LIGHTS; i++) {
        if (i >= uLightCount) break;
        vec3 L = uLightDirs[i];
        diffuse += uBaseColor.rgb * uLightColors[i] * max(dot(N, -L), 0.0);
    }

    // Hemisphere ambient: full ambient for up-facing (camera-space +Z)
    // normals, dimmed toward 60% underneath.
    vec3 hemi = mix(uAmbient * 0.6, uAmbient, N.z * 0.5 + 0.5) * uBaseColor.rgb;

    vec3 rim = vec3(0.0);
    if (uLightCount > 0) {
        rim = vec3(pow(1.0 - max(dot(V, N), 0.0), 3.0) * 0.15);
    }

    vec3 color = diffuse + hemi + rim;
    color = pow(color, vec3(1.0 / 2.2));
    outColor = vec4(color, uBaseColor.a);
}
`

// pbrFragSrc: Cook-Torrance (GGX distribution, Smith geometry, Schlick
// Fresnel) with an energy-conserving Lambert diffuse, Fresnel-weighted
// hemisphere ambient, emission, ACES filmic tone mapping, and sRGB gamma.
const pbrFragSrc = `
#version 410 core
in vec3 vNormal;
in vec3 vWorldPos;
in vec2 vTexCoord;

out vec4 outColor;

#define MAX_LIGHTS 8
uniform vec3 uLightDirs[MAX_LIGHTS];
uniform vec3 uLightColors[MAX_LIGHTS];
uniform int  uLightCount;
uniform vec3 uAmbient;
uniform vec3 uCameraPos;

uniform vec4  uBaseColor;
uniform float uMetallic;
uniform float uRoughness;
uniform vec3  uEmission;
uniform float uEmissionStrength;

const float PI = 3.14159265359;

float DistributionGGX(vec3 N, vec3 H, float roughness) {
    float a   = roughness * roughness;
    float a2  = a * a;
    float NdH = max(dot(N, H), 0.0);
    float d   = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float GeometrySchlickGGX(float cosTheta, float roughness) {
    float r = roughness + 1.0;
    float k = (r * r) / 8.0;
    return cosTheta / (cosTheta * (1.0 - k) + k);
}

float GeometrySmith(float NdV, float NdL, float roughness) {
    return GeometrySchlickGGX(NdV, roughness) * GeometrySchlickGGX(NdL, roughness);
}

vec3 FresnelSchlick(float cosTheta, vec3 F0) {
    return F0 + (1.0 - F0) * pow(clamp(1.0 - cosTheta, 0.0, 1.0), 5.0);
}

vec3 ACESFilm(vec3 x) {
    const float a = 2.51;
    const float b = 0.03;
    const float c = 2.43;
    const float d = 0.59;
    const float e = 0.14;
    return clamp((x * (a * x + b)) / (x * (c * x + d) + e), 0.0, 1.0);
}

void main() {
    vec3 N = normalize(vNormal);
    vec3 V = normalize(uCameraPos - vWorldPos);

    vec3  albedo    = uBaseColor.rgb;
    float metallic  = clamp(uMetallic, 0.0, 1.0);
    float roughness = clamp(uRoughness, 0.04, 1.0);
    vec3  F0        = mix(vec3(0.04), albedo, metallic);
    float NdV       = max(dot(N, V), 0.0);

    vec3 Lo = vec3(0.0);
    for (int i = 0; i < MAX_LIGHTS; i++) {
        if (i >= uLightCount) break;
        vec3  L   = normalize(-uLightDirs[i]);
        float NdL = max(dot(N, L), 0.0);
        if (NdL <= 0.0) continue;

        vec3  H = normalize(V + L);
        float D = DistributionGGX(N, H, roughness);
        float G = GeometrySmith(NdV, NdL, roughness);
        vec3  F = FresnelSchlick(max(dot(H, V), 0.0), F0);

        vec3 kD       = (vec3(1.0) - F) * (1.0 - metallic);
        vec3 specular = D * G * F / max(4.0 * NdV * NdL, 0.001);

        Lo += (kD * albedo / PI + specular) * uLightColors[i] * NdL;
    }

    // Ambient: hemisphere gradient weighted by Fresnel for dielectrics,
    // plus a tinted approximation for metals (which have no diffuse).
    vec3 hemi = mix(uAmbient * 0.6, uAmbient, N.z * 0.5 + 0.5);
    vec3 Fa   = FresnelSchlick(NdV, F0);
    vec3 ambient = hemi * albedo * (1.0 - metallic) * (vec3(1.0) - Fa)
                 + hemi * F0 * metallic;

    vec3 color = Lo + ambient + uEmission * uEmissionStrength;

    color = ACESFilm(color);
    color = pow(color, vec3(1.0 / 2.2));
    outColor = vec4(color, uBaseColor.a);
}
`
