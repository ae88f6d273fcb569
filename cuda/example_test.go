package cuda_test

import (
	"fmt"

	"github.com/gomlx/gocuda/cuda"
	"github.com/gomlx/gocuda/driver"
	"github.com/gomlx/gocuda/driver/fakedriver"
	"github.com/janpfeifer/must"
	"github.com/x448/float16"
)

func Example() {
	drv := fakedriver.New(1)
	dev := must.M1(cuda.NewDevice(drv, 0))
	defer func() { must.M(dev.Destroy()) }()

	mem := must.M1(cuda.CopyToDevice(dev, [2]float16.Float16{float16.Fromfloat32(0.25), float16.Fromfloat32(-4)}))
	values := must.M1(mem.Release())
	fmt.Println(values[0].Float32(), values[1].Float32())

	zeros := must.M1(cuda.AllocZeros[int64](dev))
	fmt.Println(must.M1(zeros.Release()))
	// Output:
	// 0.25 -4
	// 0
}

func ExampleIsCode() {
	_, err := cuda.NewDevice(fakedriver.New(1), 999)
	fmt.Println(cuda.IsCode(err, driver.CUDA_ERROR_INVALID_DEVICE))
	// Output: true
}
