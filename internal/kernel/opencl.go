package kernel

import (
	"fmt"

	"gravfield/internal/particles"
	"gravfield/internal/planets"
	"gravfield/internal/uniforms"
)

// EntryPoint is the name of the OpenCL update kernel.
const EntryPoint = "particle_update"

// Kernel arguments, in order.
const (
	ArgCount = iota
	ArgSeed
	ArgUniforms
	ArgPlanetPosition
	ArgPlanetRadius
	ArgIn
	ArgOut
)

const openCLBody = `uint pcg_hash(uint v)
{
    uint state = v * 747796405u + 2891336453u;
    uint word = ((state >> ((state >> 28u) + 4u)) ^ state) * 277803737u;
    return (word >> 22u) ^ word;
}

float next01(uint* s)
{
    *s = pcg_hash(*s);
    return (float)(*s >> 8) * (1.0f / 16777216.0f);
}

__kernel void particle_update(
    const int count,
    const uint seed,
    __constant float* u,
    __constant float* uPosition,
    __constant float* uRadius,
    __global const float* in,
    __global float* out)
{
    int i = get_global_id(0);
    if (i >= count) {
        return;
    }
    __global const float* rec = in + i * PARTICLE_FLOATS;
    float2 vPosition = (float2)(rec[0], rec[1]);
    float vAge = rec[2];
    float vLife = rec[3];
    float2 vVelocity = (float2)(rec[4], rec[5]);

    float dt = u[U_DELTATIME];
    float vmax = u[U_VMAX];
    float2 acc = (float2)(0.0f, 0.0f);
    int absorbed = 0;
    for (int k = 0; k < MAX_PLANETS; k++) {
        float r = uRadius[k];
        if (r <= 0.0f) {
            continue;
        }
        float2 d = (float2)(uPosition[2 * k], uPosition[2 * k + 1]) - vPosition;
        float dist = length(d);
        if (dist < r) {
            absorbed = 1;
            continue;
        }
        acc += d * (SURFACE_GRAVITY * r * r * r / (dist * dist * dist));
    }

    float2 vVelocityOut = vVelocity + acc * dt;
    float speed = length(vVelocityOut);
    if (speed > vmax && speed > 0.0f) {
        vVelocityOut *= vmax / speed;
    }
    float2 vPositionOut = vPosition + vVelocityOut * dt;
    float vAgeOut = vAge + dt;
    float vLifeOut = vLife;

    if (vAgeOut >= vLife || absorbed) {
        uint state = (uint)i ^ pcg_hash(seed);
        float angle = u[U_ALPHA] + u[U_BETA] * (next01(&state) * 2.0f - 1.0f);
        float vspeed = u[U_VMIN] + next01(&state) * (u[U_VMAX] - u[U_VMIN]);
        vLifeOut = u[U_TVMIN] + next01(&state) * (u[U_TVMAX] - u[U_TVMIN]);
        if (vLifeOut >= u[U_TVMAX] && u[U_TVMAX] > u[U_TVMIN]) {
            vLifeOut = nextafter(u[U_TVMAX], u[U_TVMIN]);
        }
        vPositionOut = (float2)(u[U_ORIGIN], u[U_ORIGIN + 1]);
        vAgeOut = 0.0f;
        vVelocityOut = (float2)(cos(angle), sin(angle)) * vspeed;
    }

    __global float* dst = out + i * PARTICLE_FLOATS;
    dst[0] = vPositionOut.x;
    dst[1] = vPositionOut.y;
    dst[2] = vAgeOut;
    dst[3] = vLifeOut;
    dst[4] = vVelocityOut.x;
    dst[5] = vVelocityOut.y;
}
`

// OpenCLSource returns the update program with the record layout, the
// uniform block offsets and the planet array size spliced in.
func OpenCLSource() string {
	return fmt.Sprintf("#define PARTICLE_FLOATS %d\n#define MAX_PLANETS %d\n#define SURFACE_GRAVITY %.9ff\n",
		particles.Floats, planets.MaxPlanets, SurfaceGravity) +
		uniforms.Defines() + "\n" + openCLBody
}
